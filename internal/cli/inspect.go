package cli

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/information-sharing-networks/uploads-apicheck/internal/inspector"
)

func newInspector() (*inspector.Inspector, error) {
	return inspector.New(cfg.DBPath,
		inspector.WithTable(cfg.UploadsTable),
		inspector.WithLogger(appLogger),
	)
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of stored uploads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		insp, err := newInspector()
		if err != nil {
			return err
		}
		n, err := insp.CountRows(cmd.Context())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
		return err
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <id|last>",
	Short: "Print a stored upload",
	Long:  `Print the upload stored with the given id, or the most recent upload when the argument is "last"`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		insp, err := newInspector()
		if err != nil {
			return err
		}

		var rec inspector.Record
		if args[0] == "last" {
			rec, err = insp.FetchLastRecord(cmd.Context())
		} else {
			id, perr := strconv.ParseInt(args[0], 10, 64)
			if perr != nil {
				return fmt.Errorf("invalid id %q: expected an integer or \"last\"", args[0])
			}
			rec, err = insp.FetchRecord(cmd.Context(), id)
		}
		if err != nil {
			return err
		}
		if rec.IsEmpty() {
			return fmt.Errorf("no upload found for %q", args[0])
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "id:      %d\nlogin:   %s\npayload: %s\n", rec.ID, rec.Login, rec.PayloadDigest)
		return err
	},
}

var truncateCmd = &cobra.Command{
	Use:   "truncate",
	Short: "Delete all stored uploads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		insp, err := newInspector()
		if err != nil {
			return err
		}
		if err := insp.Truncate(cmd.Context()); err != nil {
			return err
		}
		appLogger.Info("uploads table truncated", slog.String("table", cfg.UploadsTable))
		return nil
	},
}
