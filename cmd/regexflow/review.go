package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vedant-dewangan/RegexFlow/internal/cli"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Approve or reject pending templates",
		Long:  `Checker commands for the templates makers have submitted.`,
	}

	cmd.AddCommand(reviewPendingCmd())
	cmd.AddCommand(reviewDecisionCmd("approve", "Approve a pending template", func(ctx context.Context, a *app, actor model.Actor, id int64) (*model.Template, error) {
		return a.templates.Approve(ctx, actor, id)
	}))
	cmd.AddCommand(reviewDecisionCmd("reject", "Reject a pending template", func(ctx context.Context, a *app, actor model.Actor, id int64) (*model.Template, error) {
		return a.templates.Reject(ctx, actor, id)
	}))

	return cmd
}

func reviewPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List templates waiting for review",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := currentActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				templates, err := a.templates.PendingReview(ctx, actor)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("Review queue"))
				fmt.Fprint(cmd.OutOrStdout(), cli.RenderTemplates(templates))
				return nil
			})
		},
	}
}

type decideFunc func(ctx context.Context, a *app, actor model.Actor, id int64) (*model.Template, error)

func reviewDecisionCmd(use, short string, decide decideFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			actor, err := currentActor()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				t, err := decide(ctx, a, actor, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Template #%d is %s", t.ID, t.Status)))
				return nil
			})
		},
	}
}
