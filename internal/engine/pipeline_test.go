package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/momo-ledger/internal/classification"
	"github.com/Veraticus/momo-ledger/internal/extract"
	"github.com/Veraticus/momo-ledger/internal/metrics"
	"github.com/Veraticus/momo-ledger/internal/metrics/memory"
	"github.com/Veraticus/momo-ledger/internal/model"
	"github.com/Veraticus/momo-ledger/internal/testutil/messages"
)

func newTestPipeline(t *testing.T, sink *MockSink, rejects *MockRejects, config Config) *Pipeline {
	t.Helper()
	categorizer, err := classification.NewCategorizer()
	require.NoError(t, err)
	return NewWithConfig(categorizer, extract.DefaultBuilder(), sink, rejects, config)
}

func mixedCorpus(n int) []model.RawMessage {
	samples := []string{
		messages.Incoming,
		messages.Payment,
		messages.Unrecognized,
		messages.Withdrawal,
		messages.Deposit,
		messages.CashPower,
		messages.InternetBundle,
	}
	bodies := make([]string, n)
	for i := range bodies {
		bodies[i] = fmt.Sprintf("%s #%d", samples[i%len(samples)], i)
	}
	return messages.Corpus(bodies...)
}

func TestPipeline_EndToEnd(t *testing.T) {
	sink := NewMockSink()
	rejects := NewMockRejects()
	p := newTestPipeline(t, sink, rejects, Config{RunID: "run-1"})

	report, err := p.Run(context.Background(), messages.Corpus(
		messages.Incoming,
		messages.Unrecognized,
		messages.Payment,
	))
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.LastCommittedIndex)
	assert.Equal(t, []string{messages.Unrecognized}, report.Rejected)
	require.Len(t, report.Accepted, 2)

	incoming := report.Accepted[0]
	assert.Equal(t, model.CategoryIncoming, incoming.Category)
	assert.Equal(t, "9911", *incoming.TransactionID)
	assert.Equal(t, int64(1000), *incoming.Amount)
	assert.Equal(t, int64(5000), *incoming.Balance)
	assert.Equal(t, "2024-01-15 10:30:00", *incoming.Timestamp)
	assert.Nil(t, incoming.Counterparty)
	assert.Equal(t, "run-1", incoming.RunID)
	assert.Equal(t, 0, incoming.SourceIndex)
	assert.Equal(t, int64(1), incoming.ID)

	payment := report.Accepted[1]
	assert.Equal(t, model.CategoryPayment, payment.Category)
	assert.Equal(t, int64(2500), *payment.Amount)
	assert.Equal(t, int64(100), *payment.Fee)
	assert.Equal(t, "Jane Smith", *payment.Counterparty)
	assert.Equal(t, 2, payment.SourceIndex)

	assert.Equal(t, []int{0, 2}, sink.Indexes)
	assert.Equal(t, []int{1}, rejects.Indexes)
}

func TestPipeline_Partition(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			sink := NewMockSink()
			rejects := NewMockRejects()
			p := newTestPipeline(t, sink, rejects, Config{Workers: workers, Window: 5})

			corpus := mixedCorpus(40)
			report, err := p.Run(context.Background(), corpus)
			require.NoError(t, err)

			assert.Equal(t, len(corpus), len(report.Accepted)+len(report.Rejected))
			seen := make(map[string]int)
			for _, rec := range report.Accepted {
				seen[rec.RawText]++
			}
			for _, body := range report.Rejected {
				seen[body]++
			}
			for _, msg := range corpus {
				assert.Equal(t, 1, seen[msg.Body], "message %d", msg.Index)
			}
		})
	}
}

func TestPipeline_OrderPreservedWithWorkers(t *testing.T) {
	sink := NewMockSink()
	rejects := NewMockRejects()
	p := newTestPipeline(t, sink, rejects, Config{Workers: 8, Window: 3})

	corpus := mixedCorpus(100)
	report, err := p.Run(context.Background(), corpus)
	require.NoError(t, err)

	for i := 1; i < len(sink.Indexes); i++ {
		assert.Less(t, sink.Indexes[i-1], sink.Indexes[i])
	}
	for i := 1; i < len(rejects.Indexes); i++ {
		assert.Less(t, rejects.Indexes[i-1], rejects.Indexes[i])
	}
	for i := 1; i < len(report.Accepted); i++ {
		assert.Less(t, report.Accepted[i-1].SourceIndex, report.Accepted[i].SourceIndex)
	}
	assert.Equal(t, 99, report.LastCommittedIndex)
}

func TestPipeline_SameResultSequentialAndParallel(t *testing.T) {
	corpus := mixedCorpus(30)

	seq, err := newTestPipeline(t, NewMockSink(), NewMockRejects(), Config{}).Run(context.Background(), corpus)
	require.NoError(t, err)
	par, err := newTestPipeline(t, NewMockSink(), NewMockRejects(), Config{Workers: 4, Window: 7}).Run(context.Background(), corpus)
	require.NoError(t, err)

	assert.Equal(t, seq.Rejected, par.Rejected)
	assert.Equal(t, seq.Accepted, par.Accepted)
}

func TestPipeline_StoreFailureAborts(t *testing.T) {
	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			sink := NewMockSink()
			sink.FailAt = 3
			rejects := NewMockRejects()
			p := newTestPipeline(t, sink, rejects, Config{Workers: workers, Window: 2})

			corpus := messages.Corpus(
				messages.Incoming,
				messages.Unrecognized,
				messages.Payment,
				messages.Deposit,
				messages.Withdrawal,
				messages.Unrecognized,
			)
			report, err := p.Run(context.Background(), corpus)
			require.Error(t, err)
			require.NotNil(t, report)

			assert.ErrorIs(t, err, ErrSinkFailure)
			assert.ErrorIs(t, err, ErrMockSink)

			var sinkErr *SinkError
			require.ErrorAs(t, err, &sinkErr)
			assert.Equal(t, SinkStore, sinkErr.Sink)
			assert.Equal(t, 3, sinkErr.Index)
			assert.Equal(t, 2, sinkErr.Committed)

			assert.Equal(t, 2, report.LastCommittedIndex)
			assert.Len(t, report.Accepted, 2)
			assert.Len(t, report.Rejected, 1)
			assert.Equal(t, []int{0, 2}, sink.Indexes)
			assert.Equal(t, []int{1}, rejects.Indexes, "nothing after the failure is written")
		})
	}
}

func TestPipeline_RejectSinkFailureAborts(t *testing.T) {
	rejects := NewMockRejects()
	rejects.FailAt = 0
	p := newTestPipeline(t, NewMockSink(), rejects, Config{})

	report, err := p.Run(context.Background(), messages.Corpus(messages.Unrecognized, messages.Incoming))

	var sinkErr *SinkError
	require.ErrorAs(t, err, &sinkErr)
	assert.Equal(t, SinkRejects, sinkErr.Sink)
	assert.Equal(t, -1, sinkErr.Committed)
	assert.Equal(t, -1, report.LastCommittedIndex)
	assert.Empty(t, report.Accepted)
}

func TestPipeline_CastErrorKeepsRecord(t *testing.T) {
	collector := memory.NewCollector()
	sink := NewMockSink()
	p := newTestPipeline(t, sink, NewMockRejects(), Config{Metrics: collector})

	body := "You have received 99999999999999999999 RWF. TxId: 42."
	report, err := p.Run(context.Background(), messages.Corpus(body))
	require.NoError(t, err)

	require.Len(t, report.Accepted, 1)
	rec := report.Accepted[0]
	assert.Nil(t, rec.Amount)
	assert.Equal(t, "42", *rec.TransactionID)
	assert.Equal(t, 1, report.CastErrors)
	assert.Equal(t, 1, collector.CastErrors[string(extract.TargetAmount)])
	assert.Len(t, sink.Records, 1)
}

func TestPipeline_NullAmountAccepted(t *testing.T) {
	p := newTestPipeline(t, NewMockSink(), NewMockRejects(), Config{})

	report, err := p.Run(context.Background(), messages.Corpus("Your bank deposit is being processed"))
	require.NoError(t, err)
	require.Len(t, report.Accepted, 1)
	assert.Equal(t, model.CategoryDeposit, report.Accepted[0].Category)
	assert.Nil(t, report.Accepted[0].Amount)
}

type unknownCategorizer struct{}

func (unknownCategorizer) Categorize(string) model.Category { return "refund" }

func TestPipeline_UnbuildableCategoryRejected(t *testing.T) {
	rejects := NewMockRejects()
	p := New(unknownCategorizer{}, extract.DefaultBuilder(), NewMockSink(), rejects)

	report, err := p.Run(context.Background(), messages.Corpus(messages.Incoming))
	require.NoError(t, err)
	assert.Empty(t, report.Accepted)
	assert.Equal(t, []string{messages.Incoming}, rejects.Bodies)
}

func TestPipeline_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		collector := memory.NewCollector()
		sink := NewMockSink()
		p := newTestPipeline(t, sink, NewMockRejects(), Config{Workers: workers, Metrics: collector})

		report, err := p.Run(ctx, mixedCorpus(10))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, -1, report.LastCommittedIndex)
		assert.Empty(t, sink.Records)
		assert.Equal(t, 1, collector.Runs[StatusCanceled])
	}
}

func TestPipeline_EmptyCorpus(t *testing.T) {
	p := newTestPipeline(t, NewMockSink(), NewMockRejects(), Config{})

	report, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, report.Total)
	assert.Equal(t, -1, report.LastCommittedIndex)
}

func TestPipeline_MetricsAndProgress(t *testing.T) {
	collector := memory.NewCollector()
	var calls [][2]int
	p := newTestPipeline(t, NewMockSink(), NewMockRejects(), Config{
		Metrics: collector,
		OnProgress: func(done, total int) {
			calls = append(calls, [2]int{done, total})
		},
	})

	_, err := p.Run(context.Background(), messages.Corpus(
		messages.Incoming,
		messages.Unrecognized,
		messages.InternetBundle,
	))
	require.NoError(t, err)

	assert.Equal(t, 1, collector.Count("incoming", metrics.OutcomeAccepted))
	assert.Equal(t, 1, collector.Count("internet_bundle", metrics.OutcomeAccepted))
	assert.Equal(t, 1, collector.Count("unrecognized", metrics.OutcomeRejected))
	assert.Equal(t, 2, collector.SinkOK)
	assert.Equal(t, 1, collector.Runs[StatusCompleted])
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}

func TestSinkError(t *testing.T) {
	cause := errors.New("disk full")
	err := &SinkError{Sink: SinkStore, Index: 7, Committed: 6, Err: cause}

	assert.ErrorIs(t, err, ErrSinkFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store write failed at message 7 (last committed 6): disk full", err.Error())
}
