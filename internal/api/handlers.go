package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Veraticus/momo-ledger/internal/model"
	"github.com/Veraticus/momo-ledger/internal/pdfreport"
	"github.com/Veraticus/momo-ledger/internal/service"
	"github.com/Veraticus/momo-ledger/internal/sheets"
	"github.com/Veraticus/momo-ledger/internal/storage"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
	monthlyLimit    = 24
	contactsLimit   = 50
	dateLayout      = "2006-01-02"
	exportFilename  = "momo_transactions.json"
	reportFilename  = "momo_report.pdf"
)

// Pagination describes one page of a transaction listing.
type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	TotalPages   int  `json:"total_pages"`
	TotalRecords int  `json:"total_records"`
	HasNext      bool `json:"has_next"`
	HasPrev      bool `json:"has_prev"`
}

// TransactionPage is the body of GET /api/transactions.
type TransactionPage struct {
	Transactions []model.TransactionRecord `json:"transactions"`
	Pagination   Pagination                `json:"pagination"`
}

// CategoryCount is one row of GET /api/categories.
type CategoryCount struct {
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
}

// Export is the body of GET /api/export/json.
type Export struct {
	ExportedAt   time.Time                 `json:"exported_at"`
	Transactions []model.TransactionRecord `json:"transactions"`
	TotalRecords int                       `json:"total_records"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	response := map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", "error", err)
		response["status"] = "unhealthy"
		response["database"] = "disconnected"
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	count, err := s.store.CountTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		s.databaseError(w, "count transactions", err)
		return
	}
	response["transactions"] = count

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	filter, page, err := parseTransactionQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	total, err := s.store.CountTransactions(ctx, filter)
	if err != nil {
		s.queryError(w, "count transactions", err)
		return
	}

	records, err := s.store.ListTransactions(ctx, filter)
	if err != nil {
		s.queryError(w, "list transactions", err)
		return
	}
	if records == nil {
		records = []model.TransactionRecord{}
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	writeJSON(w, http.StatusOK, TransactionPage{
		Transactions: records,
		Pagination: Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalRecords: total,
			HasNext:      page < totalPages,
			HasPrev:      page > 1,
		},
	})
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	record, err := s.store.GetTransaction(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		s.databaseError(w, "get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CategoryCounts(r.Context())
	if err != nil {
		s.databaseError(w, "count categories", err)
		return
	}

	out := make([]CategoryCount, 0, len(counts))
	for _, c := range model.Categories() {
		out = append(out, CategoryCount{Category: c, Count: counts[c]})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.Summary(r.Context())
	if err != nil {
		s.databaseError(w, "summarize", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	months, err := s.store.SumByMonth(r.Context(), monthlyLimit)
	if err != nil {
		s.databaseError(w, "sum by month", err)
		return
	}
	if months == nil {
		months = []service.MonthSummary{}
	}
	writeJSON(w, http.StatusOK, months)
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.store.Contacts(r.Context(), contactsLimit)
	if err != nil {
		s.databaseError(w, "list contacts", err)
		return
	}
	if contacts == nil {
		contacts = []service.ContactSummary{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.AllTransactions(r.Context())
	if err != nil {
		s.databaseError(w, "export transactions", err)
		return
	}
	if records == nil {
		records = []model.TransactionRecord{}
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename))
	writeJSON(w, http.StatusOK, Export{
		ExportedAt:   time.Now().UTC(),
		TotalRecords: len(records),
		Transactions: records,
	})
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	report, err := sheets.BuildReport(r.Context(), s.store, time.Now())
	if err != nil {
		s.databaseError(w, "build report", err)
		return
	}
	data, err := pdfreport.Build(report)
	if err != nil {
		s.logger.Error("failed to render report", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render report")
		return
	}

	w.Header().Set("Content-Type", pdfreport.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// queryError maps filter validation failures from the store to 400.
func (s *Server) queryError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, storage.ErrInvalidDateRange) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.databaseError(w, op, err)
}

func (s *Server) databaseError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("database error", "operation", op, "error", err)
	writeError(w, http.StatusInternalServerError, "database error")
}

// parseTransactionQuery turns query parameters into a store filter and the
// requested 1-based page.
func parseTransactionQuery(q url.Values) (service.TransactionFilter, int, error) {
	var filter service.TransactionFilter

	if name := strings.TrimSpace(q.Get("category")); name != "" {
		c, err := model.ParseCategory(name)
		if err != nil {
			return filter, 0, err
		}
		filter.Category = &c
	}

	for _, p := range []struct {
		dst  **time.Time
		name string
	}{
		{&filter.Start, "start"},
		{&filter.End, "end"},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, 0, fmt.Errorf("invalid %s date %q: want YYYY-MM-DD", p.name, raw)
		}
		*p.dst = &t
	}

	for _, p := range []struct {
		dst  **int64
		name string
	}{
		{&filter.MinAmount, "min_amount"},
		{&filter.MaxAmount, "max_amount"},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, 0, fmt.Errorf("invalid %s %q", p.name, raw)
		}
		*p.dst = &n
	}

	filter.Search = strings.TrimSpace(q.Get("search"))

	page, err := positiveInt(q, "page", 1)
	if err != nil {
		return filter, 0, err
	}
	limit, err := positiveInt(q, "limit", defaultPageSize)
	if err != nil {
		return filter, 0, err
	}
	limit = min(limit, maxPageSize)
	if page > math.MaxInt/limit {
		return filter, 0, fmt.Errorf("invalid page %d: out of range", page)
	}

	filter.Limit = limit
	filter.Offset = (page - 1) * limit
	return filter, page, nil
}

func positiveInt(q url.Values, name string, fallback int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, raw)
	}
	return n, nil
}
