package web

import (
	"net/http"
)

// AccountInfo represents one entry of the chart of accounts.
type AccountInfo struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	DebitNormal bool   `json:"debitNormal"`
}

// AccountsResponse is the JSON response structure for the accounts endpoint.
type AccountsResponse struct {
	Accounts []AccountInfo `json:"accounts"`
}

// handleGetAccounts handles GET requests to /api/accounts.
// Returns the chart of accounts in report order.
func (s *Server) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chart := s.service.Chart()
	accounts := make([]AccountInfo, 0, chart.Len())

	for _, acc := range chart.Accounts() {
		accounts = append(accounts, AccountInfo{
			Name:        acc.Name,
			Category:    acc.Category.String(),
			DebitNormal: acc.DebitNormal,
		})
	}

	writeJSONResponse(w, &AccountsResponse{Accounts: accounts})
}
