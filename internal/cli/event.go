package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage gift exchange events",
	}

	cmd.AddCommand(newEventCreateCmd())
	cmd.AddCommand(newEventGetCmd())
	cmd.AddCommand(newEventDeleteCmd())

	return cmd
}

func newEventCreateCmd() *cobra.Command {
	var (
		maxSpend      int
		bonusItem     string
		theme         string
		matchDeadline string
		giftDeadline  string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := Rules{
				MaxSpend:  maxSpend,
				BonusItem: bonusItem,
				Theme:     theme,
			}

			if matchDeadline != "" {
				t, err := time.Parse(time.DateOnly, matchDeadline)
				if err != nil {
					return fmt.Errorf("invalid match deadline: %w", err)
				}
				rules.MatchDeadline = t
			}
			if giftDeadline != "" {
				t, err := time.Parse(time.DateOnly, giftDeadline)
				if err != nil {
					return fmt.Errorf("invalid gift deadline: %w", err)
				}
				rules.GiftDeadline = t
			}

			body := map[string]any{
				"name":  args[0],
				"rules": rules,
			}

			var result Event
			if err := client.Post("/api/v1/events", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxSpend, "max-spend", 0, "Spend limit for gifts")
	cmd.Flags().StringVar(&bonusItem, "bonus-item", "", "Optional bonus item rule")
	cmd.Flags().StringVar(&theme, "theme", "", "Optional gift theme")
	cmd.Flags().StringVar(&matchDeadline, "match-deadline", "", "Match deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&giftDeadline, "gift-deadline", "", "Gift deadline (YYYY-MM-DD)")

	return cmd
}

func newEventGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <event-id>",
		Short: "Get an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Event
			if err := client.Get("/api/v1/events/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newEventDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event and all of its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/events/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Event deleted")
			return nil
		},
	}
}
