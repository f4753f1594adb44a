package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/iudanet/issuekeeper/internal/client/api"
	pkgapi "github.com/iudanet/issuekeeper/pkg/api"
)

func newIssuesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "issues",
		Aliases: []string{"issue"},
		Short:   "Manage your security issues",
	}

	cmd.AddCommand(
		newIssuesListCmd(a),
		newIssuesCreateCmd(a),
		newIssuesGetCmd(a),
		newIssuesUpdateCmd(a),
		newIssuesDeleteCmd(a),
		newIssuesStatsCmd(a),
	)
	return cmd
}

func newIssuesListCmd(a *app) *cobra.Command {
	var q api.IssueQuery

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List issues, newest first",
		Long: `List your issues, newest first.

--search matches title and description and ignores --type and --status.`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			return a.authed(cmd.Context(), func(token string) error {
				issues, err := a.client.ListIssues(cmd.Context(), token, q)
				if err != nil {
					return err
				}
				a.renderIssues(issues)
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&q.Type, "type", "", `issue type: "Cloud Security", "Reteam Assessment" or "VAPT"`)
	cmd.Flags().StringVar(&q.Status, "status", "", "open, in-progress, resolved or closed")
	cmd.Flags().StringVar(&q.Search, "search", "", "case-insensitive text search")
	return cmd
}

func newIssuesCreateCmd(a *app) *cobra.Command {
	var req pkgapi.CreateIssueRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Report a new issue",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			return a.authed(cmd.Context(), func(token string) error {
				issue, err := a.client.CreateIssue(cmd.Context(), token, req)
				if err != nil {
					return err
				}
				a.success("Created issue %s", issue.ID)
				a.renderIssue(issue)
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&req.Type, "type", "", `issue type: "Cloud Security", "Reteam Assessment" or "VAPT"`)
	cmd.Flags().StringVar(&req.Title, "title", "", "short title")
	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "what was found and where")
	cmd.Flags().StringVar(&req.Priority, "priority", "", "low, medium, high or critical (default medium)")
	cmd.Flags().StringVar(&req.Status, "status", "", "initial status (default open)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newIssuesGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one issue",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			return a.authed(cmd.Context(), func(token string) error {
				issue, err := a.client.GetIssue(cmd.Context(), token, args[0])
				if err != nil {
					return err
				}
				a.renderIssue(issue)
				return nil
			})
		}),
	}
}

func newIssuesUpdateCmd(a *app) *cobra.Command {
	var issueType, title, description, priority, status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an issue",
		Long: `Change fields of an issue. Only the flags you pass are sent.

  issuekeeper issues update 3f2a... --status resolved`,
		Args: cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			changed := func(name string, value *string) *string {
				if flags.Changed(name) {
					return value
				}
				return nil
			}

			req := pkgapi.UpdateIssueRequest{
				Type:        changed("type", &issueType),
				Title:       changed("title", &title),
				Description: changed("description", &description),
				Priority:    changed("priority", &priority),
				Status:      changed("status", &status),
			}
			if req == (pkgapi.UpdateIssueRequest{}) {
				return errors.New("nothing to update, pass at least one of --type, --title, --description, --priority, --status")
			}

			return a.authed(cmd.Context(), func(token string) error {
				issue, err := a.client.UpdateIssue(cmd.Context(), token, args[0], req)
				if err != nil {
					return err
				}
				a.success("Updated issue %s", issue.ID)
				a.renderIssue(issue)
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&issueType, "type", "", "new issue type")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	return cmd
}

func newIssuesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an issue",
		Args:    cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			return a.authed(cmd.Context(), func(token string) error {
				msg, err := a.client.DeleteIssue(cmd.Context(), token, args[0])
				if err != nil {
					return err
				}
				a.success("%s", msg)
				return nil
			})
		}),
	}
}

func newIssuesStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count issues by status and type",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			return a.authed(cmd.Context(), func(token string) error {
				stats, err := a.client.IssueStats(cmd.Context(), token)
				if err != nil {
					return err
				}
				a.renderStats(stats)
				return nil
			})
		}),
	}
}
