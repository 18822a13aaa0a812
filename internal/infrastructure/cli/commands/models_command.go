package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/XCodeIsGoldX/ollamaland/internal/app"
	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/ai"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/cli/helpers"
)

// modelTestTimeout bounds `models test`.
const modelTestTimeout = 60 * time.Second

// NewModelsCommand creates the models command with all subcommands
func NewModelsCommand(container *app.Container) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Manage generation backend definitions",
	}

	modelsCmd.AddCommand(
		newModelsListCommand(container),
		newModelsTestCommand(container),
		newModelsUseCommand(container),
		newModelsAddCommand(container),
		newModelsRemoveCommand(container),
	)

	return modelsCmd
}

// newModelsListCommand creates the 'models list' subcommand
func newModelsListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModels(cmd.OutOrStdout(), container.Config)
		},
	}
}

// newModelsTestCommand creates the 'models test' subcommand
func newModelsTestCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "test [name]",
		Short: "Send a one-line prompt to a model (default model when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return testModel(cmd.Context(), cmd.OutOrStdout(), container.Config, name)
		},
	}
}

// newModelsUseCommand creates the 'models use' subcommand
func newModelsUseCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Set default model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateModels(container, func(cfg *domain.Config) error {
				return cfg.SetDefaultModel(args[0])
			})
		},
	}
}

// newModelsAddCommand creates the 'models add' subcommand
func newModelsAddCommand(container *app.Container) *cobra.Command {
	var opts modelAddOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new model definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := opts.definition()
			if err != nil {
				return err
			}
			return updateModels(container, func(cfg *domain.Config) error {
				return cfg.AddModel(model)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Model name (identifier)")
	cmd.Flags().StringVar(&opts.Provider, "provider", "", "ollama|openai|anthropic (inferred from the endpoint when empty)")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "Provider endpoint URL")
	cmd.Flags().StringVar(&opts.ModelID, "model-id", "", "Model identifier at provider (defaults to --name)")
	cmd.Flags().StringVar(&opts.AuthEnv, "auth-env", "", "Environment variable containing API key")
	cmd.Flags().IntVar(&opts.MaxTokens, "max-tokens", 0, "Max tokens for responses (0 = provider default)")

	return cmd
}

// newModelsRemoveCommand creates the 'models remove' subcommand
func newModelsRemoveCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove model definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateModels(container, func(cfg *domain.Config) error {
				return cfg.RemoveModel(args[0])
			})
		},
	}
}

// modelAddOptions holds options for adding a new model
type modelAddOptions struct {
	Name      string
	Provider  string
	Endpoint  string
	ModelID   string
	AuthEnv   string
	MaxTokens int
}

func (o modelAddOptions) definition() (domain.ModelDefinition, error) {
	if o.Name == "" || o.Endpoint == "" {
		return domain.ModelDefinition{}, fmt.Errorf("--name and --endpoint are required")
	}
	if o.MaxTokens < 0 {
		return domain.ModelDefinition{}, fmt.Errorf("max-tokens must not be negative, got %d", o.MaxTokens)
	}
	modelID := o.ModelID
	if modelID == "" {
		modelID = o.Name
	}
	return domain.ModelDefinition{
		Name:       o.Name,
		Provider:   domain.ProviderKind(strings.ToLower(o.Provider)),
		Endpoint:   o.Endpoint,
		ModelID:    modelID,
		AuthEnvVar: o.AuthEnv,
		MaxTokens:  o.MaxTokens,
	}, nil
}

// listModels lists all configured models
func listModels(out io.Writer, cfg domain.Config) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPROVIDER\tMODEL ID\tENDPOINT\tDEFAULT")

	for _, model := range cfg.Models {
		defaultMarker := ""
		if cfg.Preferences.DefaultModel == model.Name {
			defaultMarker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			model.Name,
			valueOrDash(string(model.ResolveProvider())),
			model.ModelID,
			model.Endpoint,
			defaultMarker)
	}

	return tw.Flush()
}

// testModel sends a short prompt to the named (or default) model
func testModel(ctx context.Context, out io.Writer, cfg domain.Config, modelName string) error {
	model, err := cfg.PickModel(modelName)
	if err != nil {
		return err
	}

	provider, err := ai.NewFactory(cfg.GetTimeout()).ForModel(model)
	if err != nil {
		return fmt.Errorf("failed to create provider for model %s: %w", model.Name, err)
	}

	testCtx, cancel := context.WithTimeout(ctx, modelTestTimeout)
	defer cancel()

	start := time.Now()
	reply, err := provider.Generate(testCtx, []domain.Message{domain.UserMessage("Reply with the single word OK.")})
	if err != nil {
		return fmt.Errorf("model %s test failed: %w", model.Name, err)
	}

	fmt.Fprintf(out, "Model %s responded in %s: %s\n", model.Name, time.Since(start).Round(time.Millisecond), strings.TrimSpace(reply))
	return nil
}

// updateModels applies mutate to the config file as written and saves it
func updateModels(container *app.Container, mutate func(*domain.Config) error) error {
	loader, err := helpers.GetConfigLoader(container)
	if err != nil {
		return err
	}
	cfg, err := loader.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := mutate(&cfg); err != nil {
		return err
	}

	return helpers.SaveConfigWithValidation(container, cfg)
}
