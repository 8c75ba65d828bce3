package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vedant-dewangan/RegexFlow/internal/cli"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

func notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "Review messages no template could explain",
	}

	cmd.AddCommand(notificationsListCmd())
	cmd.AddCommand(notificationsResolveCmd())

	return cmd
}

func notificationsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications, oldest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, _ := cmd.Flags().GetString("status")
			st := model.NotificationStatus(strings.ToUpper(status))
			if st != model.NotificationPending && st != model.NotificationResolved {
				return fmt.Errorf("unknown notification status %q", status)
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				var (
					notifications []model.Notification
					err           error
				)
				if st == model.NotificationPending {
					notifications, err = a.emitter.Pending(ctx)
				} else {
					notifications, err = a.store.GetNotificationsByStatus(ctx, st)
				}
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), cli.RenderNotifications(notifications))
				return nil
			})
		},
	}
	cmd.Flags().String("status", string(model.NotificationPending), "PENDING or RESOLVED")
	return cmd
}

func notificationsResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id>",
		Short: "Mark a notification resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid notification ID %q", args[0])
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				n, err := a.emitter.Resolve(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Notification #%d is %s", n.ID, n.Status)))
				return nil
			})
		},
	}
}
