package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/nls"
	"github.com/aretw0/nls/internal/logging"
	"github.com/aretw0/nls/internal/scenariofile"
	"github.com/aretw0/nls/pkg/adapters/process"
	"github.com/aretw0/nls/pkg/domain"
	"github.com/aretw0/nls/pkg/observability"
)

// Environment overrides for flags that were not set explicitly.
const (
	envSpecsDir   = "NLS_SPECS_DIR"
	envLogLevel   = "NLS_LOG_LEVEL"
	envSimulators = "NLS_SIMULATOR_CONFIG"
	envPort       = "NLS_PORT"
)

var rootCmd = &cobra.Command{
	Use:   "nls",
	Short: "NLS turns natural-language commands into validated scenario patches",
	Long: `NLS compiles constrained English commands ("replace aex membrane with chitosan capture",
"set titer=8 on prod1") into RFC 6902 JSON-Patch edits of a process-flowsheet scenario.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("specs", "", "Directory of unit spec records (default: built-in templates) [$"+envSpecsDir+"]")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error [$"+envLogLevel+"]")
	rootCmd.PersistentFlags().String("simulators", "", "Simulator process config (YAML or JSON) [$"+envSimulators+"]")
	rootCmd.PersistentFlags().String("simulator", "", "Simulator name from the config (default: the config's default)")
}

// setting returns the flag value, falling back to env when the flag was not set.
func setting(cmd *cobra.Command, flag, env string) string {
	v, _ := cmd.Flags().GetString(flag)
	if cmd.Flags().Changed(flag) || env == "" {
		return v
	}
	if e, ok := os.LookupEnv(env); ok {
		return e
	}
	return v
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := logging.ParseLevel(setting(cmd, "log-level", envLogLevel))
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// newEngine builds the engine from the persistent flags.
func newEngine(cmd *cobra.Command, metrics *observability.Metrics) (*nls.Engine, *slog.Logger, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}
	opts := []nls.Option{nls.WithLogger(logger), nls.WithMetrics(metrics)}

	if path := setting(cmd, "simulators", envSimulators); path != "" {
		cfg, err := process.LoadConfig(path)
		if err != nil {
			return nil, nil, err
		}
		runner := process.NewRunner(
			process.WithConfig(cfg),
			process.WithBaseDir(filepath.Dir(path)),
			process.WithLogger(logger),
		)
		if name, _ := cmd.Flags().GetString("simulator"); name != "" {
			if err := runner.Use(name); err != nil {
				return nil, nil, err
			}
		}
		opts = append(opts, nls.WithSimulator(runner))
	}

	engine, err := nls.New(cmd.Context(), setting(cmd, "specs", envSpecsDir), opts...)
	if err != nil {
		return nil, nil, err
	}
	return engine, logger, nil
}

func addScenarioFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("scenario", "s", "", "Scenario file (YAML or JSON); empty starts from an empty scenario")
}

func readScenario(cmd *cobra.Command) (domain.Scenario, error) {
	path, _ := cmd.Flags().GetString("scenario")
	return scenariofile.Read(path)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
