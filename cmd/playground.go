package cmd

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/zjrosen/vellum/internal/config"
	"github.com/zjrosen/vellum/internal/log"
	"github.com/zjrosen/vellum/internal/mode/playground"
	"github.com/zjrosen/vellum/internal/tracked"
)

var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Interactive playground for the demo components",
	Long: `Launch an interactive playground that renders the demo components.

Buttons are clickable with the mouse, or focus them with tab and press enter.
Press n to change the demo's tracked state and ? for help.`,
	RunE: runPlayground,
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}

func runPlayground(_ *cobra.Command, _ []string) error {
	if logCleanup == nil {
		// Keep the log pane fed without writing a debug log.
		log.InitWriter(io.Discard, log.LevelInfo)
	}
	if configFound {
		config.Watch(v, func(c config.Config) {
			log.Info(log.CatConfig, "Config reloaded, restart the playground to apply it", "flags", c.Flags)
		})
	}

	zone.NewGlobal()

	clock := tracked.NewClock()
	defer clock.Close()

	model := playground.New(playground.Options{
		Env:           demoEnv(clock),
		MarkdownStyle: cfg.UI.MarkdownStyle,
		ShowLog:       cfg.UI.ShowLog,
		ShowDiff:      cfg.UI.ShowDiff,
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if m, ok := final.(playground.Model); ok {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	if err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}
