package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/vellum/internal/log"
	"github.com/zjrosen/vellum/internal/mode/playground"
	"github.com/zjrosen/vellum/internal/presentation"
	"github.com/zjrosen/vellum/internal/tracked"
)

var defsFormat string

var definitionsListCmd = &cobra.Command{
	Use:   "definitions:list",
	Short: "List the component definitions of the demos",
	Long: `List every component definition the playground demos register, with
its handle, manager kind and negotiated capabilities.

Handles are per demo: each demo defines its components on a fresh runtime.

Examples:
  vellum definitions:list
  vellum definitions:list --format yaml

  # Parse specific fields with jq
  vellum definitions:list | jq '.[] | select(.kind == "class") | .name'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		clock := tracked.NewClock()
		defer clock.Close()
		env := demoEnv(clock)

		var dtos []presentation.DefinitionDTO
		for _, demo := range playground.Demos() {
			scene, err := demo.Build(env)
			if err != nil {
				return fmt.Errorf("building %s: %w", demo.Name, err)
			}
			dtos = append(dtos, presentation.FromDefinitions(demo.Name, scene.Runtime.Definitions())...)
			if err := scene.Close(); err != nil {
				log.ErrorErr(log.CatRegistry, "Demo teardown failed", err, "demo", demo.Name)
			}
		}

		return presentation.NewFormatter(cmd.OutOrStdout()).FormatDefinitions(dtos, defsFormat)
	},
}

func init() {
	definitionsListCmd.Flags().StringVarP(&defsFormat, "format", "f", presentation.FormatJSON, "Output format (json, yaml)")
	rootCmd.AddCommand(definitionsListCmd)
}
