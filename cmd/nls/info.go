package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/nls"
	"github.com/aretw0/nls/internal/presentation/graph"
	"github.com/aretw0/nls/internal/presentation/tui"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "List the command grammar and known unit templates, or help about a CLI command",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			target, _, err := cmd.Root().Find(args)
			if err != nil || target == cmd.Root() {
				return fmt.Errorf("unknown help topic %q", args)
			}
			return target.Help()
		}

		engine, _, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		sc, err := readScenario(cmd)
		if err != nil {
			return err
		}
		help := engine.HelpFor(sc)

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(out, help)
		}
		md := tui.HelpMarkdown(help)
		if !isTerminal(os.Stdout) {
			fmt.Fprint(out, md)
			return nil
		}
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width = 0
		}
		rendered, err := tui.NewRenderer(width)(md)
		if err != nil {
			rendered = md
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Check the ontology for missing synonyms and synonym collisions",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		report := engine.Coverage()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		} else {
			fmt.Fprint(cmd.OutOrStdout(), report.String())
		}
		if strict, _ := cmd.Flags().GetBool("strict"); strict && !report.OK() {
			return fmt.Errorf("ontology coverage check failed")
		}
		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph [command...]",
	Short: "Export the scenario as a Mermaid flowchart",
	Long: `Outputs a Mermaid diagram (graph LR) of the scenario. When commands are given they
are applied first and the units and streams they touch are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := readScenario(cmd)
		if err != nil {
			return err
		}
		var overlay *graph.Overlay
		if len(args) > 0 {
			engine, _, err := newEngine(cmd, nil)
			if err != nil {
				return err
			}
			res, err := engine.Batch(cmd.Context(), args, sc)
			if err != nil {
				return err
			}
			sc = res.ScenarioAfter
			overlay = graph.OverlayFromDiff(res.Diff)
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(sc, overlay))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of nls",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nls version %s\n", nls.Version)
	},
}

func init() {
	addScenarioFlag(helpCmd)
	addScenarioFlag(graphCmd)
	helpCmd.Flags().Bool("json", false, "Print the help result as JSON")
	coverageCmd.Flags().Bool("json", false, "Print the report as JSON")
	coverageCmd.Flags().Bool("strict", false, "Exit with an error when the report has findings")

	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(coverageCmd, graphCmd, versionCmd)
}
