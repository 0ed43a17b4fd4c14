package cli

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/information-sharing-networks/uploads-apicheck/internal/config"
	"github.com/information-sharing-networks/uploads-apicheck/internal/logger"
	"github.com/information-sharing-networks/uploads-apicheck/internal/version"
)

// commands annotated with noConfig run without loading the suite configuration
const noConfig = "no-config"

var (
	cfg       *config.SuiteEnvironment
	appLogger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "apicheck",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	SilenceUsage:      true,
	Short:             "Verification suite for the uploads API",
	Long: `apicheck verifies a running uploads API (ping, authorize, save_data) and cross-checks
accepted payloads against the service's database.

The target service and database are configured through environment variables
(BASE_URL, DB_PATH, AUTH_USERNAME, AUTH_PASSWORD, TOKEN_LIFETIME, ...).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := cmd.Annotations[noConfig]; ok {
			appLogger = logger.InitLogger(logger.ParseLogLevel(os.Getenv("LOG_LEVEL")), os.Getenv("ENVIRONMENT"))
			return nil
		}

		var err error
		cfg, err = config.NewSuiteConfig()
		if err != nil {
			log.Printf("failed to load configuration: %v", err.Error())
			return err
		}

		appLogger = logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
		return nil
	},
}

func Execute() {
	v := version.Get()
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(casesCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(truncateCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(payloadCmd)
}
