package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/momo-ledger/internal/model"
	"github.com/Veraticus/momo-ledger/internal/service"
)

func ptr[T any](v T) *T { return &v }

func TestFormatRWF(t *testing.T) {
	tests := []struct {
		in   *int64
		want string
	}{
		{nil, "-"},
		{ptr(int64(0)), "0 RWF"},
		{ptr(int64(999)), "999 RWF"},
		{ptr(int64(1000)), "1,000 RWF"},
		{ptr(int64(1234567)), "1,234,567 RWF"},
		{ptr(int64(-25000)), "-25,000 RWF"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRWF(tt.in))
		})
	}
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"A", "B"}, [][]string{{"long value", "x"}, {"y", "z"}})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	col := strings.Index(lines[1], "x")
	assert.Equal(t, col, strings.Index(lines[2], "z"))
	assert.Equal(t, col, strings.Index(lines[0], "B"))
}

func TestRenderLoadSummary(t *testing.T) {
	run := &model.IngestRun{
		ID:         "run-1",
		Status:     model.RunCompleted,
		Total:      10,
		Accepted:   8,
		Rejected:   2,
		CastErrors: 1,
	}

	out := RenderLoadSummary(run, 1500*time.Millisecond, "logs/unprocessed.log")
	for _, want := range []string{"Load Complete", "run-1", "completed", "Messages: 10", "logs/unprocessed.log", "Unreadable fields"} {
		assert.Contains(t, out, want)
	}

	run.Status = model.RunFailed
	run.Error = "store write failed"
	run.CastErrors = 0
	out = RenderLoadSummary(run, time.Second, "")
	assert.Contains(t, out, "store write failed")
	assert.NotContains(t, out, "Unreadable fields")
}

func TestRenderSummary(t *testing.T) {
	sum := &service.Summary{
		TotalTransactions: 3,
		TotalAmount:       12500,
		TotalFees:         100,
		UniqueContacts:    1,
		ByCategory: []service.CategorySummary{
			{Category: model.CategoryIncoming, Count: 2, Total: 11000, Average: decimal.NewFromInt(5500)},
			{Category: model.CategoryPayment, Count: 1, Total: 1500, Average: decimal.NewFromInt(1500)},
		},
		ByMonth: []service.MonthSummary{
			{Month: "2024-02", Count: 3, Total: 12500, Fees: 100},
		},
	}

	out := RenderSummary(sum)
	for _, want := range []string{"12,500 RWF", "incoming", "5500", "2024-02", "By month"} {
		assert.Contains(t, out, want)
	}

	sum.ByMonth = nil
	assert.NotContains(t, RenderSummary(sum), "By month")
}

func TestRenderRuns(t *testing.T) {
	assert.Contains(t, RenderRuns(nil), "No runs recorded yet")

	finished := time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)
	out := RenderRuns([]model.IngestRun{{
		ID:         "abc",
		Source:     "sms.xml",
		Status:     model.RunCompleted,
		StartedAt:  finished.Add(-time.Minute),
		FinishedAt: &finished,
		Total:      4,
		Accepted:   3,
		Rejected:   1,
	}})
	for _, want := range []string{"abc", "sms.xml", "completed", "UNPROCESSED"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderRecord(t *testing.T) {
	rec := &model.TransactionRecord{
		Category:      model.CategoryPayment,
		TransactionID: ptr("7312"),
		Amount:        ptr(int64(1500)),
		Counterparty:  ptr("Alice"),
	}

	out := RenderRecord(rec.Category, rec)
	for _, want := range []string{"payment", "7312", "1,500 RWF", "Alice"} {
		assert.Contains(t, out, want)
	}

	assert.Contains(t, RenderRecord(model.CategoryUnrecognized, nil), "unprocessed log")
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 3, "Loading")

	p.Update(1, 3)
	p.Update(1, 3)
	p.Update(3, 3)
	p.Finish()

	assert.Equal(t, 3, p.Done())
	assert.Contains(t, buf.String(), "Loading")
}
