package cli

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/iudanet/issuekeeper/pkg/api"
)

const timeLayout = "2006-01-02 15:04"

func (a *app) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.SetStyle(table.StyleRounded)
	if a.color {
		t.Style().Color.Header = text.Colors{text.FgHiCyan}
		t.Style().Color.Footer = text.Colors{text.FgHiBlue}
	}
	return t
}

func (a *app) paint(c text.Color, s string) string {
	if !a.color {
		return s
	}
	return c.Sprint(s)
}

func (a *app) success(format string, args ...any) {
	a.io.Printf("%s %s\n", a.paint(text.FgGreen, "✓"), fmt.Sprintf(format, args...))
}

func (a *app) renderIssues(issues []api.Issue) {
	if len(issues) == 0 {
		a.io.Println(a.paint(text.FgYellow, "No issues found"))
		return
	}

	t := a.newTable()
	t.AppendHeader(table.Row{"ID", "Type", "Title", "Priority", "Status", "Updated"})
	for _, issue := range issues {
		t.AppendRow(table.Row{
			issue.ID,
			issue.Type,
			issue.Title,
			a.paintPriority(issue.Priority),
			issue.Status,
			issue.UpdatedAt.Local().Format(timeLayout),
		})
	}
	t.AppendFooter(table.Row{"Total", len(issues)})
	t.Render()
}

func (a *app) paintPriority(priority string) string {
	switch priority {
	case "critical":
		return a.paint(text.FgHiRed, priority)
	case "high":
		return a.paint(text.FgRed, priority)
	case "medium":
		return a.paint(text.FgYellow, priority)
	default:
		return priority
	}
}

func (a *app) renderIssue(issue *api.Issue) {
	t := a.newTable()
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"ID", issue.ID},
		{"Type", issue.Type},
		{"Title", issue.Title},
		{"Description", issue.Description},
		{"Priority", a.paintPriority(issue.Priority)},
		{"Status", issue.Status},
		{"Created", issue.CreatedAt.Local().Format(timeLayout)},
		{"Updated", issue.UpdatedAt.Local().Format(timeLayout)},
	})
	t.Render()
}

func (a *app) renderStats(stats *api.IssueStats) {
	t := a.newTable()
	t.SetTitle("Issues")
	t.AppendHeader(table.Row{"Status", "Count"})
	t.AppendRows([]table.Row{
		{"open", stats.Open},
		{"in-progress", stats.InProgress},
		{"resolved", stats.Resolved},
		{"closed", stats.Closed},
	})
	t.AppendFooter(table.Row{"Total", stats.Total})
	t.Render()

	bt := a.newTable()
	bt.SetTitle("By type")
	bt.AppendHeader(table.Row{"Type", "Count"})
	bt.AppendRows([]table.Row{
		{"Cloud Security", stats.ByType.CloudSecurity},
		{"Reteam Assessment", stats.ByType.ReteamAssessment},
		{"VAPT", stats.ByType.VAPT},
	})
	bt.Render()
}

func (a *app) renderUser(user *api.User, expiresAt time.Time) {
	t := a.newTable()
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"ID", user.ID},
		{"Name", user.Name},
		{"Email", user.Email},
		{"Member since", user.CreatedAt.Local().Format(timeLayout)},
	})
	if !expiresAt.IsZero() {
		t.AppendRow(table.Row{"Session expires", expiresAt.Local().Format(timeLayout)})
	}
	t.Render()
}
