package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/information-sharing-networks/uploads-apicheck/internal/suite"
)

var errSuiteFailed = errors.New("verification failed")

var runOnly []string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the verification suite",
	Long: `Run the verification cases in priority order against BASE_URL and print a report.

Cases whose dependencies did not pass are skipped. The database is truncated after the
run unless SKIP_TEARDOWN=true. The command exits with status 1 if any case failed or was skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var opts []suite.Option
		if len(runOnly) > 0 {
			opts = append(opts, suite.WithOnly(runOnly...))
		}

		s, err := suite.New(cfg, appLogger, opts...)
		if err != nil {
			return err
		}

		report, err := s.Run(ctx, nil)
		if werr := report.WriteText(cmd.OutOrStdout()); werr != nil {
			return werr
		}
		if err != nil {
			return err
		}
		if !report.OK() {
			return errSuiteFailed
		}
		return nil
	},
}

var casesCmd = &cobra.Command{
	Use:         "cases",
	Short:       "List the verification cases in execution order",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{noConfig: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := suite.NewRunner(suite.DefaultCases(), appLogger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, c := range runner.Cases() {
			deps := "-"
			if len(c.DependsOn) > 0 {
				deps = strings.Join(c.DependsOn, ",")
			}
			if _, err := fmt.Fprintf(out, "%d\t%-22s depends on: %s\n", c.Priority, c.Name, deps); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringSliceVar(&runOnly, "only", nil, "run only the named cases (and the cases they depend on)")
}
