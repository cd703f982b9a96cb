package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newParticipantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "participant",
		Short: "Manage event participants",
	}

	cmd.AddCommand(newParticipantAddCmd())
	cmd.AddCommand(newParticipantListCmd())
	cmd.AddCommand(newParticipantRegisterCmd())

	return cmd
}

func newParticipantAddCmd() *cobra.Command {
	var (
		email string
		name  string
	)

	cmd := &cobra.Command{
		Use:   "add <event-id>",
		Short: "Invite a participant to an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"email": email,
				"name":  name,
			}

			var result Participant
			path := fmt.Sprintf("/api/v1/events/%s/participants", args[0])
			if err := client.Post(path, body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Participant email (required)")
	cmd.Flags().StringVar(&name, "name", "", "Participant name (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newParticipantListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <event-id>",
		Short: "List an event's participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Participant
			path := fmt.Sprintf("/api/v1/events/%s/participants", args[0])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newParticipantRegisterCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "register <event-id> <participant-id>",
		Short: "Register a participant with their secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"secret": secret}

			path := fmt.Sprintf("/api/v1/events/%s/participants/%s/register", args[0], args[1])
			if err := client.Post(path, body, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Registered")
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "The secret used to reveal your match later (required)")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}
