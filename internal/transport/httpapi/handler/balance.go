package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aurevia/walletsync/internal/platform/balance"
)

// BalanceService defines the balance read/refresh operations the handler needs
type BalanceService interface {
	TokenBalance() balance.View
	NativeBalance() balance.View
	Loading() bool
	Revision() uint64
	Refresh(ctx context.Context, silent bool)
}

// BalanceHandler handles balance HTTP requests
type BalanceHandler struct {
	balances BalanceService
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(balances BalanceService) *BalanceHandler {
	return &BalanceHandler{balances: balances}
}

// BalanceViewResponse represents a single balance view
type BalanceViewResponse struct {
	RawBalance     string `json:"raw_balance"`
	Decimals       int    `json:"decimals"`
	DisplayBalance string `json:"display_balance"`
	AsOf           string `json:"as_of,omitempty"`
	ErrorState     string `json:"error_state"`
	Error          string `json:"error,omitempty"`
}

// BalancesResponse represents both balances plus refresh state
type BalancesResponse struct {
	Token    BalanceViewResponse `json:"token"`
	Native   BalanceViewResponse `json:"native"`
	Loading  bool                `json:"loading"`
	Revision uint64              `json:"revision"`
}

func toBalanceViewResponse(v balance.View) BalanceViewResponse {
	raw := "0"
	if v.RawBalance != nil {
		raw = v.RawBalance.String()
	}
	asOf := ""
	if !v.AsOf.IsZero() {
		asOf = v.AsOf.Format(time.RFC3339)
	}
	return BalanceViewResponse{
		RawBalance:     raw,
		Decimals:       v.Decimals,
		DisplayBalance: v.DisplayBalance,
		AsOf:           asOf,
		ErrorState:     string(v.ErrorState),
		Error:          v.ErrorText,
	}
}

func (h *BalanceHandler) balancesResponse() BalancesResponse {
	return BalancesResponse{
		Token:    toBalanceViewResponse(h.balances.TokenBalance()),
		Native:   toBalanceViewResponse(h.balances.NativeBalance()),
		Loading:  h.balances.Loading(),
		Revision: h.balances.Revision(),
	}
}

// GetBalances handles GET /balances
func (h *BalanceHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.balancesResponse())
}

// Refresh handles POST /balances/refresh
// Runs a manual refresh pass and returns the committed state
func (h *BalanceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.balances.Refresh(r.Context(), false)
	respondWithJSON(w, http.StatusOK, h.balancesResponse())
}
