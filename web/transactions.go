package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/bookkeeper/ledger"
)

// TransactionsResponse is the JSON response structure for the transaction
// list endpoint.
type TransactionsResponse struct {
	Transactions []ledger.Transaction `json:"transactions"`
}

// TransactionRequest is the body of create and update requests. Updates
// replace every field; there is no partial update.
type TransactionRequest struct {
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	DebitAccount  string          `json:"debitAccount"`
	CreditAccount string          `json:"creditAccount"`
	Memo          string          `json:"memo"`
}

func decodeTransactionRequest(r *http.Request) (TransactionRequest, time.Time, error) {
	var request TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return request, time.Time{}, &badRequestError{msg: "Invalid request body"}
	}
	date, err := ledger.ParseDate(request.Date)
	if err != nil {
		return request, time.Time{}, &badRequestError{msg: "invalid date format (expected YYYY-MM-DD): " + request.Date}
	}
	return request, date, nil
}

// handleListTransactions handles GET requests to /api/transactions.
// Returns every transaction sorted by date, then id.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txns, err := s.service.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	ledger.SortTransactions(txns)

	if txns == nil {
		txns = []ledger.Transaction{}
	}
	writeJSONResponse(w, &TransactionsResponse{Transactions: txns})
}

// handleGetTransaction handles GET requests to /api/transactions/{id}.
func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, err := s.source.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONResponse(w, txn)
}

// handleCreateTransaction handles POST requests to /api/transactions.
// The server assigns the id and timestamps.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	request, date, err := decodeTransactionRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	txn := ledger.NewTransaction(date, request.Description, request.Amount,
		request.DebitAccount, request.CreditAccount, ledger.WithMemo(request.Memo))

	if err := s.save(r, txn); err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, txn)
}

// handleUpdateTransaction handles PUT requests to /api/transactions/{id}.
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	request, date, err := decodeTransactionRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.RLock()
	existing, err := s.source.Store.Get(r.Context(), r.PathValue("id"))
	s.mu.RUnlock()
	if err != nil {
		writeError(w, err)
		return
	}

	txn := existing
	txn.Date = date
	txn.Description = request.Description
	txn.Amount = request.Amount
	txn.DebitAccount = request.DebitAccount
	txn.CreditAccount = request.CreditAccount
	txn.Memo = request.Memo
	txn.UpdatedAt = time.Now()

	if err := s.save(r, txn); err != nil {
		writeError(w, err)
		return
	}
	writeJSONResponse(w, txn)
}

// handleDeleteTransaction handles DELETE requests to /api/transactions/{id}.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.source.Store.Delete(r.Context(), r.PathValue("id"))
	if err == nil {
		if perr := s.source.Persist(r.Context()); perr != nil {
			err = ledger.NewStorageUnavailableError("persist "+s.source.Path, perr)
		}
	}
	s.mu.Unlock()

	if err != nil {
		writeError(w, err)
		return
	}

	s.broadcast("reload")
	w.WriteHeader(http.StatusNoContent)
}

// save validates txn and writes it to the store, persisting file-backed
// sources. Only incomplete records are rejected; account problems are
// logged.
func (s *Server) save(r *http.Request, txn ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ledger.ValidateRecord(txn); err != nil {
		return err
	}
	for _, problem := range ledger.CheckAccounts(s.service.Chart(), txn,
		ledger.WithKnownAccounts(s.config.Accounts()...)) {
		s.log.Warn().Err(problem).Str("id", txn.ID).Msg("transaction recorded with account problem")
	}

	if _, err := s.source.Store.Put(r.Context(), txn); err != nil {
		return ledger.NewStorageUnavailableError("write transaction", err)
	}
	if err := s.source.Persist(r.Context()); err != nil {
		return ledger.NewStorageUnavailableError("persist "+s.source.Path, err)
	}

	s.broadcast("reload")
	return nil
}
