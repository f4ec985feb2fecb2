package handler

import (
	"net/http"
	"time"

	"github.com/aurevia/walletsync/internal/platform/history"
)

// TransactionSource defines the committed history view the handler reads
type TransactionSource interface {
	Transactions() ([]history.TransactionRecord, string)
}

// TransactionHandler handles transaction history HTTP requests
type TransactionHandler struct {
	source TransactionSource
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(source TransactionSource) *TransactionHandler {
	return &TransactionHandler{source: source}
}

// TransactionListResponse represents a filtered transaction collection
type TransactionListResponse struct {
	Transactions []history.TransactionRecord `json:"transactions"`
	Total        int                         `json:"total"`
	Error        string                      `json:"error,omitempty"`
}

// filterFromQuery builds a client-side filter from query parameters
func filterFromQuery(r *http.Request) history.Filter {
	query := r.URL.Query()
	return history.Filter{
		Type:       history.TransactionType(query.Get("type")),
		TokenType:  query.Get("token_type"),
		SearchTerm: query.Get("search"),
	}
}

// GetTransactions handles GET /transactions
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	records, historyErr := h.source.Transactions()
	filtered := filterFromQuery(r).Apply(records)
	if filtered == nil {
		filtered = []history.TransactionRecord{}
	}

	respondWithJSON(w, http.StatusOK, TransactionListResponse{
		Transactions: filtered,
		Total:        len(filtered),
		Error:        historyErr,
	})
}

// ExportTransactions handles GET /transactions/export
// Streams the filtered collection as a CSV download
func (h *TransactionHandler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	records, _ := h.source.Transactions()
	filtered := filterFromQuery(r).Apply(records)

	filename := "transactions-" + time.Now().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	if err := history.WriteCSV(w, filtered); err != nil {
		// Headers are already out; nothing useful left to send
		return
	}
}
