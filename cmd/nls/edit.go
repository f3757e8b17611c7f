package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/nls/internal/presentation/tui"
	"github.com/aretw0/nls/internal/scenariofile"
	"github.com/aretw0/nls/pkg/domain"
)

var previewCmd = &cobra.Command{
	Use:   "preview <command>",
	Short: "Show the patch a command would produce without applying it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		sc, err := readScenario(cmd)
		if err != nil {
			return err
		}
		res, err := engine.Preview(cmd.Context(), strings.Join(args, " "), sc)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		p := tui.NewPrinter(cmd.OutOrStdout())
		p.Warnings(res.Warnings)
		p.Patch(res.Patch)
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <command>...",
	Short: "Apply one or more commands to a scenario",
	Long: `Applies each argument as a command, in order. With several commands the
batch is atomic: if any command fails nothing is written.`,
	Example: `  nls apply -s line.yaml "replace aex membrane with chitosan capture" "set ph=4.4 on dsp04" -o line.yaml`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args)
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch <file|->",
	Short: "Apply a file of commands (one per line, # comments) atomically",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		commands, err := readCommands(r)
		if err != nil {
			return err
		}
		return runBatch(cmd, commands)
	},
}

func readCommands(r io.Reader) ([]string, error) {
	var commands []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		commands = append(commands, line)
	}
	return commands, scanner.Err()
}

func runBatch(cmd *cobra.Command, commands []string) error {
	engine, _, err := newEngine(cmd, nil)
	if err != nil {
		return err
	}
	sc, err := readScenario(cmd)
	if err != nil {
		return err
	}

	res, err := engine.Batch(cmd.Context(), commands, sc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		if err := scenariofile.Write(path, res.ScenarioAfter); err != nil {
			return err
		}
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, res)
	}
	p := tui.NewPrinter(out)
	p.Warnings(res.Warnings)
	p.Patch(res.Patch)
	p.Diff(res.Diff)
	return nil
}

var runCmd = &cobra.Command{
	Use:   "run [deterministic|sobol] [n=N]",
	Short: "Validate the scenario and hand it to the configured simulator",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		sc, err := readScenario(cmd)
		if err != nil {
			return err
		}
		text := strings.TrimSpace(string(domain.IntentRun) + " " + strings.Join(args, " "))
		res, err := engine.Run(cmd.Context(), text, sc)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	for _, c := range []*cobra.Command{previewCmd, applyCmd, batchCmd, runCmd} {
		addScenarioFlag(c)
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{previewCmd, applyCmd, batchCmd} {
		c.Flags().Bool("json", false, "Print the full result as JSON")
	}
	for _, c := range []*cobra.Command{applyCmd, batchCmd} {
		c.Flags().StringP("out", "o", "", "Write the resulting scenario to this file (YAML or JSON by extension)")
	}
}
