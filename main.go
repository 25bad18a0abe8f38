package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile       string
	debugMode        bool
	apiKey           string
	providerName     string
	modelName        string
	outputDirectory  string
	systemPromptPath string
	userPromptPath   string
)

var rootCmd = &cobra.Command{
	Use:           "newsletter-digest",
	Short:         "Fetch web development newsletters and summarize them with AI",
	Long:          `Fetches the latest issue of each configured newsletter, cleans it up as markdown or text, and writes one categorized AI summary across all of them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and extract every enabled source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		_, err = a.fetch(cmd.Context())
		return err
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize previously fetched content",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		return a.summarize(cmd.Context())
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch every source, then summarize",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		if _, err := a.fetch(cmd.Context()); err != nil {
			return err
		}
		return a.summarize(cmd.Context())
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := writeDefaultConfig(configFile)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("✓ Created %s\n", configFile)
		} else {
			fmt.Printf("%s already exists, leaving it unchanged\n", configFile)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultConfigFile, "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&outputDirectory, "output", "", "Output directory (overrides config)")

	for _, cmd := range []*cobra.Command{summarizeCmd, runCmd} {
		cmd.Flags().StringVar(&apiKey, "api-key", "", "AI provider API key")
		cmd.Flags().StringVar(&providerName, "provider", "", "AI provider: openai or anthropic (overrides config)")
		cmd.Flags().StringVar(&modelName, "model", "", "Model name (overrides config)")
		cmd.Flags().StringVar(&systemPromptPath, "system-prompt", "", "Path to a custom system prompt file")
		cmd.Flags().StringVar(&userPromptPath, "user-prompt", "", "Path to a custom user prompt file")
	}

	rootCmd.AddCommand(fetchCmd, summarizeCmd, runCmd, initCmd)
}

// app holds everything a command needs, resolved once at startup
type app struct {
	settings   *Settings
	log        logrus.FieldLogger
	runID      string
	summarizer *Summarizer
}

func newApp(needSummarizer bool) (*app, error) {
	log, runID := runLogger(newLogger(os.Stdout, debugMode))

	settings, err := loadSettings(configFile)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return nil, fmt.Errorf("%w (run `newsletter-digest init` to create one)", err)
		}
		return nil, err
	}
	applyFlagOverrides(settings)

	a := &app{settings: settings, log: log, runID: runID}
	if !needSummarizer {
		return a, nil
	}

	creds, err := LoadCredentials(settings.AI.Provider, apiKey)
	if err != nil {
		return nil, err
	}

	overrides := &ConfigOverrides{}
	if systemPromptPath != "" {
		overrides.SystemPromptPath = &systemPromptPath
	}
	if userPromptPath != "" {
		overrides.UserPromptPath = &userPromptPath
	}
	prompts, err := LoadPrompts(overrides)
	if err != nil {
		return nil, err
	}

	provider, err := newChatProvider(settings.AI, creds)
	if err != nil {
		return nil, err
	}

	a.summarizer, err = NewSummarizer(provider, settings.AI.Model, NewCapabilityTable(settings.AI.Models), prompts, settings.SummaryFile, log)
	if err != nil {
		return nil, fmt.Errorf("creating summarizer: %w", err)
	}
	return a, nil
}

// applyFlagOverrides lets command-line flags win over the config file
func applyFlagOverrides(settings *Settings) {
	if outputDirectory != "" {
		settings.OutputDirectory = outputDirectory
		settings.SummaryFile = filepath.Join(outputDirectory, filepath.Base(settings.SummaryFile))
	}
	if providerName != "" {
		settings.AI.Provider = providerName
	}
	if modelName != "" {
		settings.AI.Model = modelName
	}
	settings.applyDefaults()
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
