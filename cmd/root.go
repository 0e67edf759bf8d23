package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"railchat/internal/config"
	"railchat/internal/logger"
	"railchat/internal/styles"
	"railchat/internal/ui"

	"github.com/spf13/cobra"
)

var (
	configPath            string
	baseURLFlag           string
	apiKeyFlag            string
	modelFlag             string
	timeoutFlag           time.Duration
	debugMode             bool
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "railchat",
	Short: "Terminal chat client for a local OpenAI-compatible model server",
	Long: `railchat is a TUI for chatting with a self-hosted completion server.
It has three tabs: a chat, API documentation with a raw request form,
and a status panel showing server health and the loaded models.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initLogging)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to the config file (default is the user config dir)")
	flags.StringVar(&baseURLFlag, "base-url", "", "Server root URL, e.g. http://localhost:8000")
	flags.StringVar(&apiKeyFlag, "api-key", "", "Bearer token sent with every request")
	flags.StringVar(&modelFlag, "model", "", "Model name used for completions")
	flags.DurationVar(&timeoutFlag, "timeout", 0, "Per-request timeout (0 waits indefinitely)")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

func initLogging() {
	logger.SetDebug(debugMode)
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("railchat %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("railchat %s\n", version)
}

// loadConfig resolves the file, the environment and the flags that were
// set explicitly, in that order, and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = baseURLFlag
	}
	if flags.Changed("api-key") {
		cfg.APIKey = apiKeyFlag
	}
	if flags.Changed("model") {
		cfg.Model = modelFlag
	}
	if flags.Changed("timeout") {
		cfg.Timeout.Duration = timeoutFlag
	}
	if flags.Changed("debug") {
		cfg.Debug = debugMode
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// initLogger points the logger at the configured file and returns the
// function that closes it. A file that cannot be opened is only a warning.
func initLogger(stderr io.Writer, cfg *config.Config) func() {
	if err := logger.Init(cfg.LogFile); err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}
	logger.SetDebug(cfg.Debug)
	return func() { _ = logger.Close() }
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Ensure logger is closed on exit
	defer initLogger(os.Stderr, cfg)()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	styles.InitTheme()
	logger.Get().Info("starting", "version", version, "base_url", cfg.BaseURL, "model", cfg.Model)

	p := ui.NewProgram(ctx, cfg)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
