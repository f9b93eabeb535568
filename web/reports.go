package web

import (
	"net/http"

	"github.com/robinvdvleuten/bookkeeper/report"
)

// handleBalanceSheet handles GET requests to /api/reports/balance-sheet.
//
// Query parameters:
//   - asOf: Cutoff day in YYYY-MM-DD format (default: today). Transactions
//     up to the end of that day are included.
func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, err := dateParam(r, "asOf", today())
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sheet, err := s.service.BalanceSheet(r.Context(), asOf)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSONResponse(w, &BalanceSheetResponse{
		BalanceSheet:         sheet,
		LiabilitiesAndEquity: sheet.LiabilitiesAndEquity().String(),
		Balanced:             sheet.Balanced(),
	})
}

// BalanceSheetResponse adds the derived totals to the balance sheet.
type BalanceSheetResponse struct {
	*report.BalanceSheet
	LiabilitiesAndEquity string `json:"liabilitiesAndEquity"`
	Balanced             bool   `json:"balanced"`
}

// handleIncomeStatement handles GET requests to /api/reports/income-statement.
//
// Query parameters:
//   - startDate: First day in YYYY-MM-DD format (default: January 1st of the
//     end date's year).
//   - endDate: Last day in YYYY-MM-DD format (default: today).
func (s *Server) handleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	end, err := dateParam(r, "endDate", today())
	if err != nil {
		writeError(w, err)
		return
	}
	start, err := dateParam(r, "startDate", startOfYear(end))
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stmt, err := s.service.IncomeStatement(r.Context(), start, end)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSONResponse(w, stmt)
}

// handlePeriodReport handles GET requests to /api/reports/period.
//
// Query parameters:
//   - startDate: First day in YYYY-MM-DD format (default: first day of the
//     end date's month).
//   - endDate: Last day in YYYY-MM-DD format (default: today).
//   - category: all, income, expense or tax (default: all).
func (s *Server) handlePeriodReport(w http.ResponseWriter, r *http.Request) {
	end, err := dateParam(r, "endDate", today())
	if err != nil {
		writeError(w, err)
		return
	}
	start, err := dateParam(r, "startDate", end.AddDate(0, 0, 1-end.Day()))
	if err != nil {
		writeError(w, err)
		return
	}
	category, err := report.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rep, err := s.service.PeriodReport(r.Context(), start, end, category)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSONResponse(w, rep)
}

// VersionResponse identifies the running server.
type VersionResponse struct {
	Version   string `json:"version"`
	CommitSHA string `json:"commitSHA"`
	ReadOnly  bool   `json:"readOnly"`
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, &VersionResponse{
		Version:   s.Version,
		CommitSHA: s.CommitSHA,
		ReadOnly:  s.ReadOnly,
	})
}
