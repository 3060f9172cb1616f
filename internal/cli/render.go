package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/momo-ledger/internal/model"
	"github.com/Veraticus/momo-ledger/internal/service"
)

const missing = "-"

// FormatRWF renders an amount with thousands separators, or "-" when absent.
func FormatRWF(n *int64) string {
	if n == nil {
		return missing
	}
	return groupThousands(*n) + " RWF"
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}

func orMissing(s *string) string {
	if s == nil || *s == "" {
		return missing
	}
	return *s
}

// RenderLoadSummary describes a finished ingest run.
func RenderLoadSummary(run *model.IngestRun, duration time.Duration, rejectsPath string) string {
	status := SuccessStyle.Render(string(run.Status))
	if run.Status != model.RunCompleted {
		status = ErrorStyle.Render(string(run.Status))
	}

	content := fmt.Sprintf("  • Run: %s\n", SubtleStyle.Render(run.ID)) +
		fmt.Sprintf("  • Status: %s\n", status) +
		fmt.Sprintf("  • Messages: %d\n", run.Total) +
		fmt.Sprintf("  • Stored: %s\n", SuccessStyle.Render(strconv.Itoa(run.Accepted))) +
		fmt.Sprintf("  • Unprocessed: %s", WarningStyle.Render(strconv.Itoa(run.Rejected)))
	if rejectsPath != "" && run.Rejected > 0 {
		content += SubtleStyle.Render(" (" + rejectsPath + ")")
	}
	content += "\n"
	if run.CastErrors > 0 {
		content += fmt.Sprintf("  • Unreadable fields: %s\n", WarningStyle.Render(strconv.Itoa(run.CastErrors)))
	}
	content += fmt.Sprintf("  • Time taken: %s", duration.Round(time.Millisecond))
	if run.Error != "" {
		content += "\n" + FormatError(run.Error)
	}

	return RenderBox(FolderIcon+" Load Complete", content)
}

// RenderSummary renders the stats dashboard.
func RenderSummary(sum *service.Summary) string {
	totals := fmt.Sprintf("Transactions: %s   Volume: %s   Fees: %s   Contacts: %s",
		BoldStyle.Render(strconv.Itoa(sum.TotalTransactions)),
		BoldStyle.Render(FormatRWF(&sum.TotalAmount)),
		BoldStyle.Render(FormatRWF(&sum.TotalFees)),
		BoldStyle.Render(strconv.Itoa(sum.UniqueContacts)))

	categoryRows := make([][]string, 0, len(sum.ByCategory))
	for _, c := range sum.ByCategory {
		categoryRows = append(categoryRows, []string{
			string(c.Category),
			strconv.Itoa(c.Count),
			FormatRWF(&c.Total),
			c.Average.StringFixed(0),
		})
	}

	monthRows := make([][]string, 0, len(sum.ByMonth))
	for _, m := range sum.ByMonth {
		monthRows = append(monthRows, []string{
			m.Month,
			strconv.Itoa(m.Count),
			FormatRWF(&m.Total),
			FormatRWF(&m.Fees),
		})
	}

	sections := []string{
		FormatTitle("MoMo Ledger"),
		totals,
		"",
		TitleStyle.Render(ChartIcon + " By category"),
		RenderTable([]string{"CATEGORY", "COUNT", "TOTAL", "AVG"}, categoryRows),
	}
	if len(monthRows) > 0 {
		sections = append(sections,
			"",
			TitleStyle.Render(ChartIcon+" By month"),
			RenderTable([]string{"MONTH", "COUNT", "TOTAL", "FEES"}, monthRows))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderRuns lists ingest runs, newest first.
func RenderRuns(runs []model.IngestRun) string {
	if len(runs) == 0 {
		return FormatInfo("No runs recorded yet")
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		finished := missing
		if r.FinishedAt != nil {
			finished = r.FinishedAt.Local().Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			finished,
			string(r.Status),
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Accepted),
			strconv.Itoa(r.Rejected),
			r.Source,
		})
	}
	return RenderTable(
		[]string{"ID", "STARTED", "FINISHED", "STATUS", "TOTAL", "STORED", "UNPROCESSED", "SOURCE"},
		rows)
}

// RenderRecord shows the fields extracted from one message.
func RenderRecord(category model.Category, rec *model.TransactionRecord) string {
	if rec == nil {
		return FormatWarning(fmt.Sprintf("Category %s: message would go to the unprocessed log", category))
	}

	rows := [][]string{
		{"category", string(rec.Category)},
		{"tx_id", orMissing(rec.TransactionID)},
		{"amount", FormatRWF(rec.Amount)},
		{"fee", FormatRWF(rec.Fee)},
		{"balance", FormatRWF(rec.Balance)},
		{"counterparty", orMissing(rec.Counterparty)},
		{"timestamp", orMissing(rec.Timestamp)},
	}
	return RenderTable([]string{"FIELD", "VALUE"}, rows)
}
