package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nls"
	"github.com/aretw0/nls/internal/presentation/tui"
	"github.com/aretw0/nls/internal/scenariofile"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Edit a scenario interactively, one command per line",
	Long: `Starts an interactive loop over the scenario. Every line is applied as a command;
:show prints the scenario, :graph prints it as Mermaid, :preview <command> shows a patch,
:undo reverts the last command and :quit exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		sc, err := readScenario(cmd)
		if err != nil {
			return err
		}

		interactive := isTerminal(os.Stdin) && isTerminal(os.Stdout)
		sh := nls.NewShell()
		sh.Input = cmd.InOrStdin()
		sh.Output = cmd.OutOrStdout()
		sh.Headless = !interactive
		if interactive {
			tui.PrintBanner(sh.Output, nls.Version)
			sh.Renderer = tui.NewRenderer(0)
		}

		final, err := sh.Run(cmd.Context(), engine, sc)
		if err != nil {
			return err
		}
		if path, _ := cmd.Flags().GetString("out"); path != "" {
			return scenariofile.Write(path, final)
		}
		return nil
	},
}

func init() {
	addScenarioFlag(shellCmd)
	shellCmd.Flags().StringP("out", "o", "", "Write the final scenario to this file on exit")
	rootCmd.AddCommand(shellCmd)
}
