package process

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/nls/internal/logging"
	"github.com/aretw0/nls/pkg/domain"
)

// ErrSimulatorNotRegistered is returned when the selected simulator is not allow-listed.
var ErrSimulatorNotRegistered = errors.New("simulator not registered")

// waitDelay bounds how long Simulate waits for output pipes after the process is killed.
const waitDelay = 2 * time.Second

// Request is the JSON document written to the simulator's stdin.
type Request struct {
	Scenario domain.Scenario   `json:"scenario"`
	Run      domain.RunRequest `json:"run"`
}

// Runner implements ports.Simulator by executing a local process.
// Only simulators registered up front can run (allow-listing).
type Runner struct {
	registry map[string]SimulatorConfig
	active   string
	baseDir  string
	logger   *slog.Logger
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithConfig registers every simulator of cfg and selects its default.
func WithConfig(cfg ConfigFile) RunnerOption {
	return func(r *Runner) {
		for _, sim := range cfg.Simulators {
			r.Register(sim)
		}
		if cfg.Default != "" {
			r.active = cfg.Default
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a new process simulator.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: make(map[string]SimulatorConfig),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted simulator to the allow-list. The first one registered
// becomes active unless another is selected.
func (r *Runner) Register(cfg SimulatorConfig) {
	r.registry[cfg.Name] = cfg
	if r.active == "" {
		r.active = cfg.Name
	}
}

// Use selects the simulator invoked by Simulate.
func (r *Runner) Use(name string) error {
	if _, ok := r.registry[name]; !ok {
		return fmt.Errorf("%w: %s", ErrSimulatorNotRegistered, name)
	}
	r.active = name
	return nil
}

// Simulate writes {scenario, run} as JSON to the process stdin and decodes a
// JSON object of KPIs from its stdout. The run mode and sample count are also
// exported as NLS_RUN_MODE and NLS_RUN_SAMPLES.
func (r *Runner) Simulate(ctx context.Context, scenario domain.Scenario, req domain.RunRequest) (domain.KPIs, error) {
	proc, ok := r.registry[r.active]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSimulatorNotRegistered, r.active)
	}

	timeout, err := proc.timeout()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	input, err := json.Marshal(Request{Scenario: scenario, Run: req})
	if err != nil {
		return nil, fmt.Errorf("encode simulator input: %w", err)
	}

	cmd := exec.CommandContext(ctx, proc.Command, proc.Args...)
	cmd.Dir = r.baseDir
	cmd.WaitDelay = waitDelay
	cmd.Stdin = bytes.NewReader(input)

	env := []string{
		"NLS_RUN_MODE=" + req.Mode,
		"NLS_RUN_SAMPLES=" + strconv.Itoa(req.Samples),
	}
	for k, v := range proc.Environment {
		env = append(env, k+"="+v)
	}
	cmd.Env = append(cmd.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.DebugContext(ctx, "starting simulator", "simulator", proc.Name, "mode", req.Mode, "units", len(scenario.Units))
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("simulator %s: %w", proc.Name, ctxErr)
		}
		return nil, fmt.Errorf("simulator %s failed: %w (stderr: %s)", proc.Name, err, strings.TrimSpace(stderr.String()))
	}

	var kpis domain.KPIs
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &kpis); err != nil {
		return nil, fmt.Errorf("simulator %s returned invalid KPI JSON: %w", proc.Name, err)
	}
	if kpis == nil {
		kpis = domain.KPIs{}
	}
	return kpis, nil
}
