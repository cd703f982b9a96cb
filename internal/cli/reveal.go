package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRevealCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "reveal <event-id> <participant-id>",
		Short: "Reveal your assigned match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"secret": secret}

			var result Reveal
			path := fmt.Sprintf("/api/v1/events/%s/participants/%s/reveal", args[0], args[1])
			if err := client.Post(path, body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "The secret you registered with (required)")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}
