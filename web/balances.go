package web

import (
	"net/http"

	"github.com/robinvdvleuten/bookkeeper/ledger"
)

// BalancesResponse is the JSON response structure for the balances endpoint.
type BalancesResponse struct {
	Balances []ledger.AccountBalance `json:"balances"`
}

// handleGetBalances handles GET requests to /api/balances.
//
// Query parameters:
//   - category: Only return accounts of this category (asset, liability,
//     equity, revenue, expense). If omitted, returns every account with a
//     non-zero balance.
//
// Examples:
//   - GET /api/balances - All balances in chart order
//   - GET /api/balances?category=expense - Expense accounts only
func (s *Server) handleGetBalances(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category := ledger.CategoryUnknown
	if param := r.URL.Query().Get("category"); param != "" {
		c, err := ledger.ParseCategory(param)
		if err != nil {
			http.Error(w, "invalid category: "+param, http.StatusBadRequest)
			return
		}
		category = c
	}

	lines, err := s.service.Balances(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	balances := make([]ledger.AccountBalance, 0, len(lines))
	for _, line := range lines {
		if category == ledger.CategoryUnknown || line.Category == category {
			balances = append(balances, line)
		}
	}

	writeJSONResponse(w, &BalancesResponse{Balances: balances})
}
