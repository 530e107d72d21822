// Package api serves the journal over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rustyeddy/odyssey/internal/logger"
	"github.com/rustyeddy/odyssey/internal/metrics"
	"github.com/rustyeddy/odyssey/journal"
	"github.com/rustyeddy/odyssey/strategy"
	"github.com/rustyeddy/odyssey/trade"
)

// Server owns a Book and writes it back to its Store after every change.
// Requests are serialized on mu.
type Server struct {
	mu    sync.Mutex
	book  *journal.Book
	store journal.Store
	log   *slog.Logger
}

func New(book *journal.Book, store journal.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{book: book, store: store, log: log}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "odyssey"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/accounts", s.ListAccounts)
		r.Post("/accounts", s.CreateAccount)
		r.Put("/accounts/active", s.SetActiveAccount)

		r.Get("/transactions", s.ListTransactions)
		r.Post("/transactions", s.SaveTransaction)
		r.Get("/transactions/{id}", s.GetTransaction)
		r.Delete("/transactions/{id}", s.DeleteTransaction)

		r.Get("/summary", s.GetSummary)
		r.Get("/curve", s.GetCurve)
		r.Get("/strategies", s.ListStrategies)

		r.Get("/settings", s.GetSettings)
		r.Put("/settings", s.PutSettings)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("odyssey listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// requestLogger puts a logger tagged with the request id into the context.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := s.log.With("request_id", middleware.GetReqID(r.Context()), "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(logger.ToContext(r.Context(), log)))
	})
}

// commit persists doc. When the save fails the book is put back to snap,
// so memory never holds a change the store refused. Callers hold mu.
func (s *Server) commit(ctx context.Context, snap *journal.Book, doc journal.Document) error {
	if err := s.store.Save(ctx, doc); err != nil {
		logger.FromContext(ctx).Error("save journal", "err", err)
		s.book.Restore(snap)
		return err
	}
	return nil
}

// --- Accounts ---

type accountsResponse struct {
	Accounts        []journal.Account `json:"accounts"`
	ActiveAccountID string            `json:"activeAccountId"`
}

func (s *Server) accounts() accountsResponse {
	return accountsResponse{
		Accounts:        s.book.Selector().Accounts(),
		ActiveAccountID: s.book.Selector().ActiveID(),
	}
}

// ListAccounts handles GET /api/v1/accounts
func (s *Server) ListAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.accounts())
}

// CreateAccount handles POST /api/v1/accounts
func (s *Server) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.book.Snapshot()
	a := s.book.AddAccount(req.Name)
	if err := s.commit(r.Context(), snap, s.book.Document()); err != nil {
		writeErr(w, err)
		return
	}
	logger.FromContext(r.Context()).Info("account created", "id", a.ID, "name", a.Name)
	writeJSON(w, http.StatusCreated, a)
}

// SetActiveAccount handles PUT /api/v1/accounts/active
func (s *Server) SetActiveAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.book.Snapshot()
	if err := s.book.Selector().SetActive(req.ID); err != nil {
		writeErr(w, err)
		return
	}
	if err := s.commit(r.Context(), snap, s.book.Document()); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.accounts())
}

// --- Transactions ---

type listResponse struct {
	Transactions []journal.Transaction `json:"transactions"`
	Page         int                   `json:"page"`
	Pages        int                   `json:"pages"`
	Total        int                   `json:"total"`
}

// ListTransactions handles GET /api/v1/transactions
//
// Query parameters: filter, q, sort, desc, page, per_page.
func (s *Server) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := journal.ParseFilter(q.Get("filter"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	key, err := journal.ParseSortKey(q.Get("sort"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	desc := q.Get("desc") == "true"
	page := intParam(q.Get("page"), 1)
	perPage := intParam(q.Get("per_page"), 0)

	s.mu.Lock()
	txs, err := s.book.Ledger().List()
	s.mu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}

	txs = journal.Search(filter.Apply(txs), q.Get("q"))
	journal.Sort(txs, key, desc)
	total := len(txs)
	txs, pages := journal.Paginate(txs, page, perPage)
	if txs == nil {
		txs = []journal.Transaction{}
	}
	writeJSON(w, http.StatusOK, listResponse{Transactions: txs, Page: page, Pages: pages, Total: total})
}

// SaveTransaction handles POST /api/v1/transactions
//
// A body without an id adds a transaction; with an id it updates the
// fields it carries.
func (s *Server) SaveTransaction(w http.ResponseWriter, r *http.Request) {
	var rec journal.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	op := metrics.OpAdd
	if rec.ID != nil {
		op = metrics.OpUpdate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.book.Snapshot()
	tx, applied, err := s.book.Ledger().AddOrUpdate(rec)
	switch {
	case err != nil:
		metrics.RecordMutation(op, metrics.OutcomeRejected)
		writeErr(w, err)
		return
	case !applied:
		metrics.RecordMutation(op, metrics.OutcomeNoop)
		writeError(w, "transaction not found", http.StatusNotFound)
		return
	}

	if err := s.commit(r.Context(), snap, s.book.ActiveDocument()); err != nil {
		metrics.RecordMutation(op, metrics.OutcomeFailed)
		writeErr(w, err)
		return
	}
	metrics.RecordMutation(op, metrics.OutcomeApplied)
	logger.FromContext(r.Context()).Info("transaction saved", "op", op, "id", tx.ID, "type", tx.Kind, "amount", tx.Amount())

	status := http.StatusOK
	if op == metrics.OpAdd {
		status = http.StatusCreated
	}
	writeJSON(w, status, tx)
}

// GetTransaction handles GET /api/v1/transactions/{id}
func (s *Server) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "invalid transaction id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	tx, ok, err := s.book.Ledger().Get(id)
	s.mu.Unlock()
	switch {
	case err != nil:
		writeErr(w, err)
	case !ok:
		writeError(w, "transaction not found", http.StatusNotFound)
	default:
		writeJSON(w, http.StatusOK, tx)
	}
}

// DeleteTransaction handles DELETE /api/v1/transactions/{id}
func (s *Server) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "invalid transaction id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.book.Snapshot()
	ok, err := s.book.Ledger().Delete(id)
	if err != nil {
		metrics.RecordMutation(metrics.OpDelete, metrics.OutcomeRejected)
		writeErr(w, err)
		return
	}
	if !ok {
		metrics.RecordMutation(metrics.OpDelete, metrics.OutcomeNoop)
		writeError(w, "transaction not found", http.StatusNotFound)
		return
	}

	if err := s.commit(r.Context(), snap, s.book.ActiveDocument()); err != nil {
		metrics.RecordMutation(metrics.OpDelete, metrics.OutcomeFailed)
		writeErr(w, err)
		return
	}
	metrics.RecordMutation(metrics.OpDelete, metrics.OutcomeApplied)
	logger.FromContext(r.Context()).Info("transaction deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// --- Reports ---

// GetSummary handles GET /api/v1/summary
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	txs, err := s.book.Ledger().List()
	s.mu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, journal.Summarize(txs))
}

// GetCurve handles GET /api/v1/curve
func (s *Server) GetCurve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	txs, err := s.book.Ledger().List()
	s.mu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, journal.PnLCurve(txs))
}

type strategyView struct {
	Name        string        `json:"name"`
	Strikes     []string      `json:"strikes"`
	Risk        strategy.Risk `json:"risk"`
	Ratio       bool          `json:"ratio"`
	Expirations int           `json:"expirations"`
	Direction   string        `json:"direction"`
}

// ListStrategies handles GET /api/v1/strategies
func (s *Server) ListStrategies(w http.ResponseWriter, r *http.Request) {
	kinds := strategy.All()
	out := make([]strategyView, len(kinds))
	for i, k := range kinds {
		spec := k.Spec()
		out[i] = strategyView{
			Name:        spec.Name,
			Strikes:     spec.Strikes,
			Risk:        spec.Risk,
			Ratio:       spec.Ratio,
			Expirations: max(spec.Expirations, 1),
			Direction:   spec.Direction.String(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// --- Settings ---

// GetSettings handles GET /api/v1/settings
func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.book.Settings())
}

// PutSettings handles PUT /api/v1/settings
func (s *Server) PutSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.book.Settings()
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	snap := s.book.Snapshot()
	if err := s.book.SetSettings(st); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.commit(r.Context(), snap, s.book.Document()); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.book.Settings())
}

// --- Helpers ---

func intParam(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, trade.ErrInvalidTrade),
		errors.Is(err, journal.ErrInvalidTransaction),
		errors.Is(err, strategy.ErrUnknownStrategy):
		return http.StatusBadRequest
	case errors.Is(err, journal.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, journal.ErrNoActiveAccount),
		errors.Is(err, journal.ErrIDsExhausted):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeErr maps a journal error to its status code.
func writeErr(w http.ResponseWriter, err error) {
	writeError(w, err.Error(), statusOf(err))
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
