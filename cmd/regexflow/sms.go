package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vedant-dewangan/RegexFlow/internal/cli"
)

func smsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sms",
		Short: "Submit messages and browse history",
	}

	cmd.AddCommand(smsSubmitCmd())
	cmd.AddCommand(smsHistoryCmd())

	return cmd
}

func smsSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit [text]",
		Short: "Match a message against the verified templates of its sender",
		Long: `Match a message against the verified templates of its sender.

The text is read from stdin when no argument is given. The sender header is
the text before the first colon, e.g. "TESTBK: Your account ...".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor()
			if err != nil {
				return err
			}

			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read message: %w", err)
				}
				text = strings.TrimRight(string(data), "\r\n")
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				sub, err := a.messages.Process(ctx, text, actor.UserID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if !sub.HasMatch {
					msg := fmt.Sprintf("No verified template for %q matched message #%d", sub.SenderHeader, sub.MessageID)
					if sub.Notification != nil {
						msg += fmt.Sprintf(" (notification #%d)", sub.Notification.ID)
					}
					fmt.Fprintln(out, cli.FormatWarning(msg))
					return nil
				}

				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Message #%d matched template #%d (%s, score %d)",
					sub.MessageID, *sub.TemplateID, sub.Direction, sub.Score)))
				fmt.Fprint(out, cli.RenderFields(sub.Fields))
				return nil
			})
		},
	}
}

func smsHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the messages submitted by --user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := currentActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				messages, err := a.messages.History(ctx, actor.UserID)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), cli.RenderMessages(messages))
				return nil
			})
		},
	}
}
