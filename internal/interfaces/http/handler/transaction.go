package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/split/backend/internal/application/ledger"
	"github.com/split/backend/internal/interfaces/http/middleware"
)

// TransactionHandler handles ledger endpoints: transactions and balances
type TransactionHandler struct {
	BaseHandler
	service *ledgerapp.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(service *ledgerapp.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// RegisterRoutes registers ledger routes
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	{
		transactions.GET("/:id", h.GetByID)
		transactions.DELETE("/:id", h.Remove)
	}

	users := rg.Group("/users")
	{
		users.POST("/:id/transactions", h.Create)
		users.GET("/:id/transactions", h.ListInvolvingUser)
		users.GET("/:id/balances", h.GetBalances)
	}
}

// Create handles POST /users/:id/transactions, with the path user as sender
func (h *TransactionHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID handles GET /transactions/:id
func (h *TransactionHandler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Remove handles DELETE /transactions/:id
func (h *TransactionHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListInvolvingUser handles GET /users/:id/transactions
func (h *TransactionHandler) ListInvolvingUser(c *gin.Context) {
	transactions := make([]ledgerapp.TransactionResponse, 0)
	for tx, err := range h.service.ListInvolvingUser(c.Request.Context(), c.Param("id")) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		transactions = append(transactions, tx)
	}
	h.Success(c, transactions)
}

// GetBalances handles GET /users/:id/balances
func (h *TransactionHandler) GetBalances(c *gin.Context) {
	balances, err := h.service.GetBalances(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balances)
}
