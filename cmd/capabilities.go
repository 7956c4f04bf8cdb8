package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/vellum/internal/flags"
	"github.com/zjrosen/vellum/internal/presentation"
	"github.com/zjrosen/vellum/internal/render"
)

var (
	capsManager string
	capsFormat  string
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Show the capabilities each manager kind declares",
	Long: `Show the capabilities declared by the built-in component managers.

The class manager declares async-lifecycle only when the async-hooks
feature flag is on.

Examples:
  # Every manager as a table
  vellum capabilities

  # One manager
  vellum capabilities --manager function

  # Parse with jq
  vellum capabilities --format json | jq '.[].capabilities'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt := render.NewRuntime(render.WithAsyncHooks(featureFlags.Enabled(flags.FlagAsyncHooks)))
		defer rt.Close()

		all := []presentation.CapabilityDTO{
			presentation.NewCapabilityDTO(rt.ClassManager().Kind(), rt.ClassManager().Capabilities(nil)),
			presentation.NewCapabilityDTO(rt.FunctionManager().Kind(), rt.FunctionManager().Capabilities(nil)),
			presentation.NewCapabilityDTO(rt.TemplateOnlyManager().Kind(), rt.TemplateOnlyManager().Capabilities(nil)),
		}

		sets := all
		if capsManager != "" {
			sets = nil
			for _, s := range all {
				if s.Manager == capsManager {
					sets = append(sets, s)
				}
			}
			if len(sets) == 0 {
				return fmt.Errorf("unknown manager %q (want class, function or template-only)", capsManager)
			}
		}

		return presentation.NewFormatter(cmd.OutOrStdout()).FormatCapabilities(sets, capsFormat)
	},
}

func init() {
	capabilitiesCmd.Flags().StringVarP(&capsManager, "manager", "m", "", "Only show one manager kind (class, function, template-only)")
	capabilitiesCmd.Flags().StringVarP(&capsFormat, "format", "f", presentation.FormatTable, "Output format (table, json)")
	_ = capabilitiesCmd.RegisterFlagCompletionFunc("manager", cobra.FixedCompletions(
		[]string{"class", "function", "template-only"}, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.AddCommand(capabilitiesCmd)
}

