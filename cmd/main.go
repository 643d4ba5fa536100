// Command ticketprice prices tracker issues by their recorded time.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/angelofallars/ticketprice/app"
	"github.com/angelofallars/ticketprice/internal/config"
	"github.com/angelofallars/ticketprice/internal/logging"
	"github.com/angelofallars/ticketprice/internal/service"
	"github.com/angelofallars/ticketprice/pkg/tracker"
)

// Version is set at build time
var Version = "dev"

var (
	cfg        *config.Config
	configPath string
	jsonOutput bool
)

func main() {
	err := rootCmd.Execute()
	logging.Flush(2 * time.Second)
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "ticketprice",
	Short:        "Price tracker issues from their recorded time",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		_, err = logging.Init(logging.Config{
			Level:     logging.ParseLevel(cfg.Log.Level),
			SentryDSN: cfg.Log.SentryDSN,
			Env:       cfg.Log.Env,
			Version:   Version,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if host, _ := cmd.Flags().GetString("host"); host != "" {
			cfg.Server.Host = host
		}
		if port, _ := cmd.Flags().GetUint("port"); port != 0 {
			cfg.Server.Port = port
		}

		svc, err := newPricingService()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logging.Default().Info("starting ticketprice",
			"version", Version,
			"sentry", cfg.Log.SentryDSN != "",
			"auth", cfg.Server.APIToken != "",
		)

		err = app.New(logging.Default(), svc).
			WithHost(cfg.Server.Host).
			WithPort(cfg.Server.Port).
			WithAPIToken(cfg.Server.APIToken).
			Serve(ctx)
		if err != nil {
			logging.Default().Error("server error", "error", err)
		}
		return err
	},
}

func newPricingService() (service.Pricing, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := tracker.New(cfg.TrackerClientConfig())
	return service.NewPricing(client, service.Fields{
		Spent:      cfg.Fields.Spent,
		HourlyRate: cfg.Fields.HourlyRate,
		Price:      cfg.Fields.Price,
	}, logging.Default()), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default $TICKETPRICE_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print quotes as JSON")

	serveCmd.Flags().String("host", "", "Address to listen on (overrides config)")
	serveCmd.Flags().Uint("port", 0, "Port to listen on (overrides config)")

	calcCmd.Flags().String("spent", "", "Time spent, e.g. PT1H30M")
	calcCmd.Flags().Float64("rate", 0, "Hourly rate")
	_ = calcCmd.MarkFlagRequired("spent")
	_ = calcCmd.MarkFlagRequired("rate")

	applyCmd.Flags().Bool("dry-run", false, "Compute the price without writing it back")

	rootCmd.AddCommand(serveCmd, calcCmd, applyCmd)
}
