package experiment

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/interp"
	"github.com/san-kum/cellsim/internal/metrics"
	"github.com/san-kum/cellsim/internal/models"
	"github.com/san-kum/cellsim/internal/params"
	"github.com/san-kum/cellsim/internal/sim"
)

var _ = Describe("end to end runs", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.DefaultConfig()
	})

	solve := func() (*sim.Solution, error) {
		run, err := Build(cfg)
		Expect(err).NotTo(HaveOccurred())
		return run.Simulator.Run(context.Background(), run.Span, run.Config)
	}

	Describe("a one hour 1C discharge on the SPM", func() {
		It("produces a monotone discharge trace", func() {
			sol, err := solve()
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Empty()).To(BeFalse())
			Expect(sol.FirstTime()).To(Equal(0.0))
			Expect(sol.LastTime()).To(BeNumerically("<=", 3600.0))

			Expect(sol.SOC[0]).To(BeNumerically("~", 1.0, 1e-9))
			for i := 1; i < len(sol.SOC); i++ {
				Expect(sol.SOC[i]).To(BeNumerically("<=", sol.SOC[i-1]+1e-12))
			}
			for _, v := range sol.Voltage {
				Expect(v).To(BeNumerically(">", 2.0))
				Expect(v).To(BeNumerically("<", 5.0))
			}
		})

		It("accumulates about 5 Ah of throughput over the full hour", func() {
			run, err := Build(cfg)
			Expect(err).NotTo(HaveOccurred())

			throughput := metrics.NewThroughput()
			run.Simulator.AddMetric(throughput)

			sol, err := run.Simulator.Run(context.Background(), run.Span, run.Config)
			Expect(err).NotTo(HaveOccurred())

			// The run may stop early on the lower cutoff; throughput is
			// proportional to the time actually covered.
			expected := 5.0 * sol.LastTime() / 3600.0
			Expect(sol.Metrics[throughput.Name()]).To(BeNumerically("~", expected, 0.01))
		})
	})

	Describe("driving with an interpolated current profile", func() {
		It("follows the profile through the sign change", func() {
			cfg.Protocol = config.ProtocolConfig{
				Type:          "drive",
				DriveTimes:    []float64{0, 1800, 3600},
				DriveCurrents: []float64{-5, -5, 5},
			}
			cfg.Duration = 3600
			cfg.Overrides = map[string]float64{"Initial state of charge": 0.5}

			p, err := interp.NewPiecewiseLinear(cfg.Protocol.DriveTimes, cfg.Protocol.DriveCurrents)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.At(900)).To(Equal(-5.0))
			Expect(p.At(3600)).To(Equal(5.0))

			sol, err := solve()
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Empty()).To(BeFalse())

			// The first half charges; the recorded current must match the
			// profile at the sample times.
			for i, t := range sol.Times {
				Expect(sol.Current[i]).To(BeNumerically("~", p.At(t), 1e-9))
			}
		})
	})

	Describe("parameter handling", func() {
		It("rejects unknown parameter set names", func() {
			cfg.ParameterSet = "grey2049"
			_, err := Build(cfg)
			Expect(err).To(MatchError(params.ErrUnknownSet))
		})

		It("applies overrides without touching the base catalog", func() {
			cfg.Overrides = map[string]float64{"Series resistance [Ohm]": 0.05}
			run, err := Build(cfg)
			Expect(err).NotTo(HaveOccurred())

			overridden, err := run.Simulator.Params.Float(params.SeriesResistance)
			Expect(err).NotTo(HaveOccurred())
			Expect(overridden).To(Equal(0.05))

			fresh, err := params.Load("chen2020")
			Expect(err).NotTo(HaveOccurred())
			base, err := fresh.Float(params.SeriesResistance)
			Expect(err).NotTo(HaveOccurred())
			Expect(base).To(Equal(0.010))
		})
	})

	Describe("voltage cutoffs", func() {
		It("terminates a deep discharge on the lower cutoff", func() {
			cfg.Protocol = config.ProtocolConfig{Type: "crate", CRate: 2.0}
			cfg.Duration = 7200
			cfg.Dt = 0.5

			sol, err := solve()
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Termination).To(Equal(sim.TerminationLowerCutoff))
			Expect(sol.LastTime()).To(BeNumerically("<", 7200.0))
			last := sol.Voltage[len(sol.Voltage)-1]
			Expect(last).To(BeNumerically("<=", 2.5))
		})
	})

	Describe("SEI degradation", func() {
		It("grows the film during a charge", func() {
			cfg.SEI = string(models.SEIReactionLimited)
			cfg.Protocol = config.ProtocolConfig{Type: "cc", Amps: -2.5}
			cfg.Duration = 600
			cfg.Overrides = map[string]float64{"Initial state of charge": 0.5}

			run, err := Build(cfg)
			Expect(err).NotTo(HaveOccurred())
			sol, err := run.Simulator.Run(context.Background(), run.Span, run.Config)
			Expect(err).NotTo(HaveOccurred())

			spm, ok := run.Simulator.Model().(*models.SPM)
			Expect(ok).To(BeTrue())

			first := spm.SEIThickness(sol.States[0])
			lastState := sol.States[len(sol.States)-1]
			Expect(spm.SEIThickness(lastState)).To(BeNumerically(">", first))
			Expect(spm.LithiumLoss(lastState)).To(BeNumerically(">", 0.0))
		})
	})

	Describe("parsed experiments", func() {
		It("runs a discharge-rest sequence to protocol completion", func() {
			set, err := params.Load("chen2020")
			Expect(err).NotTo(HaveOccurred())

			seq, err := Parse([]string{
				"Discharge at C/2 for 10 minutes",
				"Rest for 5 minutes",
			}, set)
			Expect(err).NotTo(HaveOccurred())

			def, err := models.New(models.SPMVariant, models.DefaultOptions())
			Expect(err).NotTo(HaveOccurred())
			model, err := def.Build(set)
			Expect(err).NotTo(HaveOccurred())
			ig, err := BuildIntegrator("rk4")
			Expect(err).NotTo(HaveOccurred())

			simCfg := sim.DefaultConfig()
			sol, err := sim.New(model, ig, seq).Run(context.Background(), sim.Span{Start: 0, End: 3600}, simCfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Termination).To(Equal(sim.TerminationProtocol))
			Expect(sol.LastTime()).To(BeNumerically("~", 900.0, 2.0))
		})
	})
})
