package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cellsim/internal/sim"
)

const historyCapacity = 600

type TickMsg time.Time

// Live is a Bubble Tea model that steps a simulation in real time,
// plotting the recent voltage history.
type Live struct {
	model      sim.Model
	integrator sim.Integrator
	protocol   sim.Protocol
	cfg        sim.Config
	span       sim.Span

	x       sim.State
	t       float64
	current float64
	paused  bool
	done    bool
	reason  string

	voltageHistory []float64
	speed          float64 // simulated seconds per wall second
}

func NewLive(model sim.Model, integrator sim.Integrator, protocol sim.Protocol, span sim.Span, cfg sim.Config) *Live {
	return &Live{
		model:      model,
		integrator: integrator,
		protocol:   protocol,
		cfg:        cfg,
		span:       span,
		x:          model.InitialState(),
		t:          span.Start,
		speed:      60,
	}
}

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (l *Live) Init() tea.Cmd { return tick() }

func (l *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return l, tea.Quit
		case " ":
			l.paused = !l.paused
		case "r":
			l.x = l.model.InitialState()
			l.t = l.span.Start
			l.current = 0
			l.voltageHistory = nil
			l.done = false
			l.reason = ""
		case "+", "=":
			l.speed *= 2
		case "-":
			if l.speed > 1 {
				l.speed /= 2
			}
		}
		return l, nil

	case TickMsg:
		if !l.paused && !l.done {
			l.advance(l.speed * 0.05)
		}
		return l, tick()
	}
	return l, nil
}

// advance integrates up to simSeconds of model time.
func (l *Live) advance(simSeconds float64) {
	end := l.t + simSeconds
	for l.t < end && !l.done {
		voltage := l.model.Voltage(l.x, l.current)
		l.current = l.protocol.Current(l.x, voltage, l.t)
		voltage = l.model.Voltage(l.x, l.current)

		l.voltageHistory = append(l.voltageHistory, voltage)
		if len(l.voltageHistory) > historyCapacity {
			l.voltageHistory = l.voltageHistory[1:]
		}

		switch {
		case l.cfg.LowerVoltageCutoff > 0 && voltage <= l.cfg.LowerVoltageCutoff:
			l.finish("lower voltage cut-off")
		case l.cfg.UpperVoltageCutoff > 0 && voltage >= l.cfg.UpperVoltageCutoff && l.current < 0:
			l.finish("upper voltage cut-off")
		case l.t >= l.span.End:
			l.finish("final time")
		default:
			l.x = l.integrator.Step(l.model, l.x, l.current, l.t, l.cfg.Dt)
			l.t += l.cfg.Dt
			if !l.x.IsValid() {
				l.finish("invalid state")
			}
		}
	}
}

func (l *Live) finish(reason string) {
	l.done = true
	l.reason = reason
}

func (l *Live) View() string {
	var b strings.Builder

	b.WriteString(Header.Render(fmt.Sprintf("cellsim live: %s", l.model.Name())))
	b.WriteString("\n")

	if len(l.voltageHistory) > 1 {
		b.WriteString(asciigraph.Plot(l.voltageHistory,
			asciigraph.Height(14),
			asciigraph.Width(80),
			asciigraph.Caption("Voltage [V]"),
		))
		b.WriteString("\n\n")
	}

	voltage := l.model.Voltage(l.x, l.current)
	stats := []string{
		Label.Render("t") + Value.Render(fmt.Sprintf("%8.1f s", l.t)),
		Label.Render("current") + Value.Render(fmt.Sprintf("%8.3f A", l.current)),
		Label.Render("voltage") + Value.Render(fmt.Sprintf("%8.3f V", voltage)),
		Label.Render("soc") + Value.Render(fmt.Sprintf("%8.1f %%", l.model.SOC(l.x)*100)),
		Label.Render("speed") + Value.Render(fmt.Sprintf("%8.0fx", l.speed)),
	}
	b.WriteString(Panel.Render(strings.Join(stats, "\n")))
	b.WriteString("\n")

	switch {
	case l.done:
		b.WriteString(StatusDone.Render("finished: " + l.reason))
	case l.paused:
		b.WriteString(StatusDone.Render("paused"))
	default:
		b.WriteString(StatusRunning.Render("running"))
	}
	b.WriteString(Subtle.Render("   space pause · r reset · +/- speed · q quit"))
	b.WriteString("\n")

	return b.String()
}
