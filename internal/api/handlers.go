package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/experiment"
	"github.com/san-kum/cellsim/internal/models"
	"github.com/san-kum/cellsim/internal/params"
	"github.com/san-kum/cellsim/internal/version"
)

const (
	maxDuration  = 7 * 24 * 3600.0
	solveTimeout = 30 * time.Second
)

// SolveRequest describes one simulation over the wire. The zero values
// fall back to the config defaults.
type SolveRequest struct {
	Model        string             `json:"model"`
	SEI          string             `json:"sei"`
	ParameterSet string             `json:"parameter_set"`
	Overrides    map[string]float64 `json:"overrides"`
	Integrator   string             `json:"integrator"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Adaptive     bool               `json:"adaptive"`
	Tolerance    float64            `json:"tolerance"`

	Protocol ProtocolRequest `json:"protocol"`
}

type ProtocolRequest struct {
	Type          string    `json:"type"`
	Amps          float64   `json:"amps"`
	CRate         float64   `json:"crate"`
	HoldVoltage   float64   `json:"hold_voltage"`
	CutoffCurrent float64   `json:"cutoff_current"`
	DriveTimes    []float64 `json:"drive_times"`
	DriveCurrents []float64 `json:"drive_currents"`
}

// SolveResponse carries the solved traces.
type SolveResponse struct {
	Model        string             `json:"model"`
	ParameterSet string             `json:"parameter_set"`
	Termination  string             `json:"termination"`
	Samples      int                `json:"samples"`
	Times        []float64          `json:"times"`
	Current      []float64          `json:"current"`
	Voltage      []float64          `json:"voltage"`
	SOC          []float64          `json:"soc"`
	Metrics      map[string]float64 `json:"metrics"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (r SolveRequest) toConfig() *config.Config {
	cfg := config.DefaultConfig()
	if r.Model != "" {
		cfg.Model = r.Model
	}
	if r.SEI != "" {
		cfg.SEI = r.SEI
	}
	if r.ParameterSet != "" {
		cfg.ParameterSet = r.ParameterSet
	}
	cfg.Overrides = r.Overrides
	if r.Integrator != "" {
		cfg.Integrator = r.Integrator
	}
	if r.Dt > 0 {
		cfg.Dt = r.Dt
	}
	if r.Duration > 0 {
		cfg.Duration = r.Duration
	}
	cfg.Adaptive = r.Adaptive
	if r.Tolerance > 0 {
		cfg.Tolerance = r.Tolerance
	}
	if r.Protocol.Type != "" {
		cfg.Protocol = config.ProtocolConfig{
			Type:          r.Protocol.Type,
			Amps:          r.Protocol.Amps,
			CRate:         r.Protocol.CRate,
			HoldVoltage:   r.Protocol.HoldVoltage,
			CutoffCurrent: r.Protocol.CutoffCurrent,
			DriveTimes:    r.Protocol.DriveTimes,
			DriveCurrents: r.Protocol.DriveCurrents,
		}
	}
	return cfg
}

func (s *Server) getVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": version.Version(), "full": version.Full()})
}

func (s *Server) listModels(c *gin.Context) {
	variants := make([]string, 0, len(models.Variants()))
	for _, v := range models.Variants() {
		variants = append(variants, string(v))
	}
	c.JSON(http.StatusOK, gin.H{
		"models":    variants,
		"sei_modes": []string{string(models.SEINone), string(models.SEIReactionLimited)},
	})
}

func (s *Server) listParameterSets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"parameter_sets": params.Names()})
}

func (s *Server) getParameterSet(c *gin.Context) {
	set, err := params.Load(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}

	values := make(map[string]interface{}, set.Len())
	for _, k := range set.Keys() {
		v, _ := set.Get(k)
		if v.IsFunction() {
			values[string(k)] = "function"
			continue
		}
		f, _ := v.Float()
		values[string(k)] = f
	}
	c.JSON(http.StatusOK, gin.H{"name": set.Name(), "values": values})
}

func (s *Server) listPresets(c *gin.Context) {
	presets := make(map[string][]string, len(config.Presets))
	for model := range config.Presets {
		presets[model] = config.ListPresets(model)
	}
	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

func (s *Server) solve(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.Duration > maxDuration {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "duration exceeds one week"})
		return
	}

	key, err := json.Marshal(req)
	if err == nil {
		if cached, ok := s.cache.Get(string(key)); ok {
			c.JSON(http.StatusOK, cached.(*SolveResponse))
			return
		}
	}

	resp, status, solveErr := s.runSolve(c.Request.Context(), &req)
	if solveErr != nil {
		c.JSON(status, errorResponse{Error: solveErr.Error()})
		return
	}
	if err == nil {
		s.cache.SetDefault(string(key), resp)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) runSolve(ctx context.Context, req *SolveRequest) (*SolveResponse, int, error) {
	run, err := experiment.Build(req.toConfig())
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	ctx, cancel := context.WithTimeout(ctx, solveTimeout)
	defer cancel()

	sol, err := run.Simulator.Run(ctx, run.Span, run.Config)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, err
	}

	return &SolveResponse{
		Model:        run.Simulator.Model().Name(),
		ParameterSet: run.Simulator.Params.Name(),
		Termination:  string(sol.Termination),
		Samples:      len(sol.Times),
		Times:        sol.Times,
		Current:      sol.Current,
		Voltage:      sol.Voltage,
		SOC:          sol.SOC,
		Metrics:      sol.Metrics,
	}, http.StatusOK, nil
}
