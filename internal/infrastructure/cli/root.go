// Package cli exposes the analyzer as cobra commands and an interactive menu.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/XCodeIsGoldX/ollamaland/internal/app"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// annotationNoContainer marks commands that run without loading config or caches.
const annotationNoContainer = "ollamaland/no-container"

// NewRootCmd wires the cobra root command. The container is built once flags are parsed
// and shared by pointer with every subcommand.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container := &app.Container{}
	appOpts := app.Options{Verbose: opts.Verbose}
	built := false

	root := &cobra.Command{
		Use:   "ollamaland",
		Short: "Fetch web pages and analyze them with a local LLM",
		Long: "ollamaland fetches web pages, caches their text and sends it to an Ollama (or " +
			"OpenAI-compatible / Anthropic) model to summarize, extract keywords, classify sentiment, " +
			"answer questions and compare pages. Results are cached by content fingerprint.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationNoContainer] == "true" || built {
				return nil
			}
			c, err := app.BuildContainer(cmd.Context(), appOpts)
			if err != nil {
				return err
			}
			*container = *c
			built = true
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, container)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&appOpts.ConfigPath, "config", "", "Config file (default ~/.ollamaland/config.yaml, env OLLAMALAND_CONFIG)")
	flags.StringVarP(&appOpts.Model, "model", "m", "", "Model entry to use (default preferences.default_model)")
	flags.BoolVarP(&appOpts.Verbose, "verbose", "v", opts.Verbose, "Enable debug logging")

	root.AddCommand(
		newFetchCommand(container),
		newAnalyzeCommand(container),
		newAskCommand(container),
		newCompareCommand(container),
		newOrganizeCommand(container),
		newInteractiveCommand(container),
		commands.NewCacheCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewConfigCommand(container),
		commands.NewModelsCommand(container),
		withoutContainer(commands.NewVersionCommand()),
	)

	cobra.OnFinalize(func() {
		if built {
			_ = container.Close()
		}
	})
	return root, nil
}

func withoutContainer(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationNoContainer] = "true"
	return cmd
}
