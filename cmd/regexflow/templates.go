package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/vedant-dewangan/RegexFlow/internal/bundle"
	"github.com/vedant-dewangan/RegexFlow/internal/cli"
	"github.com/vedant-dewangan/RegexFlow/internal/lifecycle"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
	"github.com/vedant-dewangan/RegexFlow/internal/pattern"
)

func templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"tpl"},
		Short:   "Author and inspect SMS templates",
		Long:    `Create drafts, submit them for review, test patterns and browse templates.`,
	}

	cmd.AddCommand(templatesCreateCmd())
	cmd.AddCommand(templatesSubmitCmd())
	cmd.AddCommand(templatesListCmd())
	cmd.AddCommand(templatesShowCmd())
	cmd.AddCommand(templatesTestCmd())
	cmd.AddCommand(templatesImportCmd())
	cmd.AddCommand(templatesExportCmd())
	cmd.AddCommand(templatesDeprecateCmd())

	return cmd
}

func addDefinitionFlags(cmd *cobra.Command) {
	cmd.Flags().String("sender", "", "sender header the template applies to")
	cmd.Flags().String("pattern", "", "regex with named groups, e.g. (?<amount>[\\d,.]+)")
	cmd.Flags().String("sample", "", "sample message the pattern was written against")
	cmd.Flags().String("sms-type", "", "DEBIT, CREDIT, LOAN or SERVICE")
	cmd.Flags().String("txn-type", "", "transaction category, e.g. UPI_DEBIT")
	cmd.Flags().String("payment-type", "", "payment channel, e.g. UPI")
	cmd.Flags().Int64("bank", 0, "bank ID")
}

func definitionFromFlags(cmd *cobra.Command) (*lifecycle.Revision, error) {
	rev := &lifecycle.Revision{}
	rev.SenderHeader, _ = cmd.Flags().GetString("sender")
	rev.Pattern, _ = cmd.Flags().GetString("pattern")
	rev.SampleRawMsg, _ = cmd.Flags().GetString("sample")
	rev.BankID, _ = cmd.Flags().GetInt64("bank")

	smsType, _ := cmd.Flags().GetString("sms-type")
	txnType, _ := cmd.Flags().GetString("txn-type")
	payType, _ := cmd.Flags().GetString("payment-type")
	rev.SmsType = model.SmsType(strings.ToUpper(smsType))
	rev.TransactionType = model.TransactionType(strings.ToUpper(txnType))
	rev.PaymentType = model.PaymentType(strings.ToUpper(payType))

	if rev.SmsType != "" && !rev.SmsType.IsValid() {
		return nil, fmt.Errorf("unknown sms type %q", smsType)
	}
	if rev.TransactionType != "" && !rev.TransactionType.IsValid() {
		return nil, fmt.Errorf("unknown transaction type %q", txnType)
	}
	if rev.PaymentType != "" && !rev.PaymentType.IsValid() {
		return nil, fmt.Errorf("unknown payment type %q", payType)
	}
	return rev, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid template ID %q", arg)
	}
	return id, nil
}

func templatesCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := currentActor()
			if err != nil {
				return err
			}
			rev, err := definitionFromFlags(cmd)
			if err != nil {
				return err
			}
			if rev.SenderHeader == "" || rev.Pattern == "" {
				return fmt.Errorf("--sender and --pattern are required")
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				draft, err := a.templates.CreateDraft(ctx, actor, &model.Template{
					SenderHeader:    rev.SenderHeader,
					Pattern:         rev.Pattern,
					SampleRawMsg:    rev.SampleRawMsg,
					SmsType:         rev.SmsType,
					TransactionType: rev.TransactionType,
					PaymentType:     rev.PaymentType,
					BankID:          rev.BankID,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created draft #%d", draft.ID)))
				return nil
			})
		},
	}
	addDefinitionFlags(cmd)
	return cmd
}

func templatesSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <id>",
		Short: "Submit a draft for review, optionally revising it",
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
			rev, err := definitionFromFlags(cmd)
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				t, err := a.templates.Submit(ctx, actor, id, rev)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Template #%d is %s", t.ID, t.Status)))
				return nil
			})
		},
	}
	addDefinitionFlags(cmd)
	return cmd
}

func templatesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, _ := cmd.Flags().GetString("status")
			sender, _ := cmd.Flags().GetString("sender")
			mine, _ := cmd.Flags().GetBool("mine")

			return withApp(cmd, func(ctx context.Context, a *app) error {
				var (
					templates []model.Template
					err       error
				)
				st := model.TemplateStatus(strings.ToUpper(status))
				switch {
				case mine:
					actor, aerr := currentActor()
					if aerr != nil {
						return aerr
					}
					templates, err = a.templates.ByCreator(ctx, actor.UserID)
				case sender != "":
					if st == "" {
						st = model.StatusVerified
					}
					templates, err = a.store.GetTemplatesBySenderAndStatus(ctx, sender, st)
				default:
					if st == "" {
						st = model.StatusVerified
					}
					templates, err = a.templates.ByStatus(ctx, st)
				}
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), cli.RenderTemplates(templates))
				return nil
			})
		},
	}
	cmd.Flags().String("status", "", "DRAFT, PENDING, VERIFIED or DEPRECATED (default VERIFIED)")
	cmd.Flags().String("sender", "", "only templates for this sender header")
	cmd.Flags().Bool("mine", false, "templates authored by --user")
	return cmd
}

func templatesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a template and its latest review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				t, err := a.templates.Get(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTemplate(t))
				return nil
			})
		},
	}
}

func templatesTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run a pattern against a sample message without saving anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			regex, _ := cmd.Flags().GetString("pattern")
			sample, _ := cmd.Flags().GetString("sample")
			if regex == "" || sample == "" {
				return fmt.Errorf("--pattern and --sample are required")
			}

			svc := lifecycle.NewService(nil)
			outcome, report, err := svc.TestPattern(regex, sample, pattern.Tags{})
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatError(err.Error()))
				return err
			}

			out := cmd.OutOrStdout()
			if len(report.Unknown) > 0 {
				fmt.Fprintln(out, cli.FormatWarning("Groups outside the field catalog are ignored: "+strings.Join(report.Unknown, ", ")))
			}
			fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Score %d", outcome.Score())))
			fmt.Fprint(out, cli.RenderFields(outcome.Values()))
			return nil
		},
	}
	cmd.Flags().String("pattern", "", "regex to test")
	cmd.Flags().String("sample", "", "sample message")
	return cmd
}

func templatesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <bundle.yaml>",
		Short: "Create drafts from a YAML template bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor()
			if err != nil {
				return err
			}
			b, err := bundle.Load(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				bar := progressbar.NewOptions(len(b.Templates),
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionEnableColorCodes(true),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetDescription("[cyan][bold]Importing templates...[reset]"),
					progressbar.OptionSetTheme(progressbar.Theme{
						Saucer:        "[green]=[reset]",
						SaucerHead:    "[green]>[reset]",
						SaucerPadding: " ",
						BarStart:      "[",
						BarEnd:        "]",
					}),
					progressbar.OptionOnCompletion(func() {
						fmt.Fprintln(cmd.ErrOrStderr())
					}),
				)

				results, summary, err := bundle.Import(ctx, a.templates, actor, b, func(bundle.Result) {
					_ = bar.Add(1)
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, r := range results {
					if r.Err != nil && !r.Skipped() {
						fmt.Fprintln(out, cli.FormatError(fmt.Sprintf("entry %d: %v", r.Index+1, r.Err)))
					}
				}
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Created %d drafts, skipped %d duplicates, %d failed",
					summary.Created, summary.Skipped, summary.Failed)))
				return nil
			})
		},
	}
}

func templatesExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write templates in a status as a YAML bundle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, _ := cmd.Flags().GetString("status")
			output, _ := cmd.Flags().GetString("output")

			return withApp(cmd, func(ctx context.Context, a *app) error {
				templates, err := a.templates.ByStatus(ctx, model.TemplateStatus(strings.ToUpper(status)))
				if err != nil {
					return err
				}
				data, err := bundle.Marshal(templates)
				if err != nil {
					return fmt.Errorf("failed to encode bundle: %w", err)
				}
				if output == "" || output == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				return os.WriteFile(output, data, 0o600)
			})
		},
	}
	cmd.Flags().String("status", string(model.StatusVerified), "status of the templates to export")
	cmd.Flags().StringP("output", "o", "", "file to write (default stdout)")
	return cmd
}

func templatesDeprecateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deprecate <id>",
		Short: "Retire a verified template",
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
				t, err := a.templates.Deprecate(ctx, actor, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Template #%d is %s", t.ID, t.Status)))
				return nil
			})
		},
	}
}
