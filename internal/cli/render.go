package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

const timeLayout = "2006-01-02 15:04"

// RenderTable lays out rows under a styled header, padding each column to its
// widest cell.
func RenderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(joinCells(headers, widths)))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(joinCells(row, widths))
		b.WriteString("\n")
	}
	return b.String()
}

func joinCells(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i == len(widths)-1 {
			parts[i] = cell
			continue
		}
		parts[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// RenderTemplates renders a one-line-per-template listing.
func RenderTemplates(templates []model.Template) string {
	if len(templates) == 0 {
		return SubtleStyle.Render("No templates found.") + "\n"
	}

	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.ID),
			t.SenderHeader,
			string(t.Status),
			string(t.SmsType),
			string(t.TransactionType),
			fmt.Sprintf("%d", t.CreatedBy),
			truncate(t.Pattern, 48),
		})
	}
	return RenderTable([]string{"ID", "SENDER", "STATUS", "SMS", "TXN", "MAKER", "PATTERN"}, rows)
}

// RenderTemplate renders every attribute of a template in a box.
func RenderTemplate(t *model.Template) string {
	lines := []string{
		fmt.Sprintf("Status:      %s", StatusBadge(t.Status)),
		fmt.Sprintf("Sender:      %s", t.SenderHeader),
		fmt.Sprintf("Pattern:     %s", t.Pattern),
		fmt.Sprintf("SMS type:    %s", t.SmsType),
		fmt.Sprintf("Transaction: %s", t.TransactionType),
		fmt.Sprintf("Payment:     %s", t.PaymentType),
		fmt.Sprintf("Bank:        %d", t.BankID),
		fmt.Sprintf("Maker:       %d", t.CreatedBy),
		fmt.Sprintf("Updated:     %s", t.UpdatedAt.Format(timeLayout)),
	}
	if t.SampleRawMsg != "" {
		lines = append(lines, fmt.Sprintf("Sample:      %s", t.SampleRawMsg))
	}
	if t.Audit != nil {
		lines = append(lines, fmt.Sprintf("Review:      %s by %d at %s",
			t.Audit.Decision, t.Audit.ReviewerID, t.Audit.DecidedAt.Format(timeLayout)))
	}
	return RenderBox(fmt.Sprintf("Template #%d", t.ID), strings.Join(lines, "\n"))
}

// RenderFields renders extracted values sorted by field name.
func RenderFields(values map[string]string) string {
	if len(values) == 0 {
		return SubtleStyle.Render("No fields extracted.") + "\n"
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, values[name]})
	}
	return RenderTable([]string{"FIELD", "VALUE"}, rows)
}

// RenderMessages renders a user's message history.
func RenderMessages(messages []model.Message) string {
	if len(messages) == 0 {
		return SubtleStyle.Render("No messages found.") + "\n"
	}

	rows := make([][]string, 0, len(messages))
	for _, m := range messages {
		tmpl := "-"
		if m.HasMatch() {
			tmpl = fmt.Sprintf("%d", *m.MatchedTemplateID)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", m.ID),
			m.CreatedAt.Format(timeLayout),
			m.SenderHeader,
			tmpl,
			fmt.Sprintf("%d", len(m.ExtractedFields)),
			truncate(m.Text, 48),
		})
	}
	return RenderTable([]string{"ID", "RECEIVED", "SENDER", "TEMPLATE", "FIELDS", "TEXT"}, rows)
}

// RenderNotifications renders unmatched-message notifications.
func RenderNotifications(notifications []model.Notification) string {
	if len(notifications) == 0 {
		return SubtleStyle.Render("No notifications.") + "\n"
	}

	pending := 0
	rows := make([][]string, 0, len(notifications))
	for _, n := range notifications {
		status := string(n.Status)
		if n.Status == model.NotificationPending {
			pending++
			status = PendingIcon + " " + status
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", n.ID),
			status,
			n.CreatedAt.Format(timeLayout),
			n.SenderHeader,
			fmt.Sprintf("%d", n.RequestedBy),
			truncate(n.SmsText, 48),
		})
	}
	title := FormatTitle(fmt.Sprintf("Notifications (%d pending)", pending))
	return title + "\n" + RenderTable([]string{"ID", "STATUS", "CREATED", "SENDER", "USER", "TEXT"}, rows)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
