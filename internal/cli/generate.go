package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/information-sharing-networks/uploads-apicheck/internal/payload"
)

var digestCmd = &cobra.Command{
	Use:         "digest <payload>",
	Short:       "Print the digest stored by the service for a payload (uppercase hex MD5)",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{noConfig: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), payload.Digest(args[0]))
		return err
	},
}

var payloadCmd = &cobra.Command{
	Use:         "payload <length>",
	Short:       "Print a random alphanumeric payload of the given length",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{noConfig: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid length %q", args[0])
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), payload.Generate(n))
		return err
	},
}
