package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/budget-tracker/internal/api/middleware"
	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies accepted by the write endpoints.
const maxBodyBytes = 1 << 20

// TransactionService is the subset of service.TransactionService the
// handlers depend on.
type TransactionService interface {
	ListTransactions(ctx context.Context) ([]*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	CreateTransaction(ctx context.Context, candidate *domain.Transaction) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, candidate *domain.Transaction) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	CalculateBalance(ctx context.Context) (float64, error)
}

// TransactionsHandler handles transaction-related endpoints.
type TransactionsHandler struct {
	svc TransactionService
	log zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(svc TransactionService, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		svc: svc,
		log: log,
	}
}

// transactionRequest is the wire shape of a create or update body.
// Pointer fields distinguish a missing value from a zero one.
type transactionRequest struct {
	Description string                 `json:"description"`
	Amount      *float64               `json:"amount"`
	Type        domain.TransactionType `json:"type"`
	Date        *civil.Date            `json:"date"`
	Category    *string                `json:"category"`
}

// validate applies the request-level field checks and returns the first
// violation message, or "".
func (req *transactionRequest) validate() string {
	switch {
	case strings.TrimSpace(req.Description) == "":
		return "Description is required"
	case req.Amount == nil:
		return "Amount is required"
	case *req.Amount <= 0:
		return "Amount must be positive"
	case req.Type == "":
		return "Type is required"
	case req.Date == nil:
		return "Date is required"
	}
	return ""
}

func (req *transactionRequest) toDomain() *domain.Transaction {
	return &domain.Transaction{
		Description: req.Description,
		Amount:      *req.Amount,
		Type:        req.Type,
		Date:        *req.Date,
		Category:    req.Category,
	}
}

// decodeTransaction reads and checks the request body. On failure it has
// already written the 400 response and returns nil.
func (h *TransactionsHandler) decodeTransaction(w http.ResponseWriter, r *http.Request) *domain.Transaction {
	var req transactionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.log.Debug().Err(err).Msg("Rejected transaction body")
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return nil
	}

	if msg := req.validate(); msg != "" {
		middleware.WriteError(w, http.StatusBadRequest, msg)
		return nil
	}

	return req.toDomain()
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.svc.ListTransactions(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET /api/transactions/{id}
func (h *TransactionsHandler) GetTransaction(w http.ResponseWriter, r *http.Request, id string) {
	tx, err := h.svc.GetTransaction(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to get transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to get transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, tx)
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	candidate := h.decodeTransaction(w, r)
	if candidate == nil {
		return
	}

	tx, err := h.svc.CreateTransaction(r.Context(), candidate)
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.log.Error().Err(err).Msg("Failed to create transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create transaction: "+err.Error())
	default:
		middleware.WriteJSON(w, http.StatusCreated, tx)
	}
}

// UpdateTransaction handles PUT /api/transactions/{id}
func (h *TransactionsHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request, id string) {
	candidate := h.decodeTransaction(w, r)
	if candidate == nil {
		return
	}

	tx, err := h.svc.UpdateTransaction(r.Context(), id, candidate)
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, err.Error())
	case err != nil:
		h.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to update transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to update transaction: "+err.Error())
	default:
		middleware.WriteJSON(w, http.StatusOK, tx)
	}
}

// DeleteTransaction handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	err := h.svc.DeleteTransaction(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, err.Error())
	case err != nil:
		h.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to delete transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete transaction: "+err.Error())
	default:
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "Transaction deleted successfully",
			"id":      id,
		})
	}
}

// GetBalance handles GET /api/transactions/balance
func (h *TransactionsHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.svc.CalculateBalance(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to calculate balance")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to calculate balance")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]float64{"balance": balance})
}
