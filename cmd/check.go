package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"railchat/internal/api"
	"railchat/internal/config"
	"railchat/internal/logger"
	"railchat/internal/models"
	"railchat/internal/session"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

const (
	checkPrompt       = "Say 'Hello World' and nothing else."
	checkMaxTokens    = 10
	checkTemperature  = 0.1
	probeTimeout      = 10 * time.Second
	chatCheckTimeout  = 30 * time.Second
	totalChecks       = 3
	defaultWaitWindow = 30 * time.Second
)

var (
	ErrNotReady     = errors.New("server did not become ready in time")
	ErrChecksFailed = errors.New("some checks failed")
)

var waitFlag time.Duration

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Smoke-test the configured server",
	Long: `Runs the health, models and chat checks against the configured server
and prints one line per check followed by a summary.

With --wait the command first polls /health once a second until the server
reports healthy or the wait runs out.`,
	Args: cobra.NoArgs,
	RunE: runCheckCmd,
}

func init() {
	checkCmd.Flags().DurationVar(&waitFlag, "wait", 0, "Wait up to this long for /health to pass before checking (e.g. 30s)")
	checkCmd.Flags().Lookup("wait").NoOptDefVal = defaultWaitWindow.String()
	rootCmd.AddCommand(checkCmd)
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer initLogger(cmd.ErrOrStderr(), cfg)()

	client := api.NewClient(api.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout.Duration,
		Logger:  logger.WithComponent("check"),
	})
	return runChecks(cmd.Context(), cmd.OutOrStdout(), client, cfg, waitFlag)
}

// runChecks is the body of the check command with its dependencies injected
func runChecks(ctx context.Context, out io.Writer, client session.API, cfg *config.Config, wait time.Duration) error {
	fmt.Fprintf(out, "Testing deployment at: %s\n", client.BaseURL())
	fmt.Fprintln(out, strings.Repeat("=", 50))

	if wait > 0 {
		fmt.Fprintln(out, "Waiting for server to be ready...")
		if err := waitForHealthy(ctx, client, wait, time.Second); err != nil {
			fmt.Fprintf(out, "FAIL %v\n", err)
			return err
		}
	}

	passed := 0
	for _, check := range []func(context.Context, io.Writer, session.API, *config.Config) bool{
		checkHealth,
		checkModels,
		checkChat,
	} {
		if check(ctx, out, client, cfg) {
			passed++
		}
	}

	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Test Results: %d/%d tests passed\n", passed, totalChecks)
	if passed != totalChecks {
		fmt.Fprintln(out, "Some tests failed. Check the deployment.")
		return fmt.Errorf("%w: %d of %d", ErrChecksFailed, totalChecks-passed, totalChecks)
	}
	fmt.Fprintln(out, "All tests passed! Deployment is working correctly.")
	return nil
}

// waitForHealthy polls the health endpoint at most once per interval until it
// passes or wait elapses.
func waitForHealthy(ctx context.Context, client session.API, wait, interval time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(interval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return ErrNotReady
		}
		probeCtx, probeCancel := context.WithTimeout(ctx, probeTimeout)
		report := client.Health(probeCtx)
		probeCancel()
		if report.State == models.HealthHealthy {
			return nil
		}
	}
}

func checkHealth(ctx context.Context, out io.Writer, client session.API, _ *config.Config) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	report := client.Health(ctx)
	switch report.State {
	case models.HealthHealthy:
		fmt.Fprintln(out, "PASS Health endpoint working")
		return true
	case models.HealthDegraded:
		fmt.Fprintf(out, "FAIL Health endpoint returned %d\n", report.StatusCode)
	default:
		fmt.Fprintf(out, "FAIL Health endpoint failed: %s\n", report.Summary())
	}
	return false
}

func checkModels(ctx context.Context, out io.Writer, client session.API, _ *config.Config) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	list, err := client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(out, "FAIL Models endpoint failed: %v\n", err)
		return false
	}
	fmt.Fprintf(out, "PASS Models endpoint working - %d models available\n", len(list))
	return true
}

func checkChat(ctx context.Context, out io.Writer, client session.API, cfg *config.Config) bool {
	ctx, cancel := context.WithTimeout(ctx, chatCheckTimeout)
	defer cancel()

	reply, err := client.Complete(ctx, api.CompletionRequest{
		Model:       cfg.Model,
		Prompt:      checkPrompt,
		MaxTokens:   checkMaxTokens,
		Temperature: checkTemperature,
	})
	// A 2xx answer without choices still proves the endpoint is serving
	if err != nil && !errors.Is(err, api.ErrNoChoices) {
		fmt.Fprintf(out, "FAIL Chat endpoint failed: %v\n", err)
		return false
	}
	fmt.Fprintf(out, "PASS Chat endpoint working - Response: '%s'\n", strings.TrimSpace(reply))
	return true
}
