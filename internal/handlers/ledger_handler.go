package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "bliq/internal/errors"
	"bliq/internal/ledger"
	"bliq/internal/pagination"
	"bliq/internal/services"
)

// LedgerHandler handles month and transaction requests.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, auditService: auditService}
}

// TransactionRequest represents the payload for creating or updating a transaction.
type TransactionRequest struct {
	Description string           `json:"description" binding:"required,max=200"`
	Amount      *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"1200.50"`
	Date        string           `json:"date" binding:"required"`
	Category    string           `json:"category" binding:"max=60"`
	Type        string           `json:"type" binding:"required,tx_type"`
	Status      string           `json:"status" binding:"required,tx_status"`
}

func (r TransactionRequest) draft() (ledger.Draft, error) {
	date, err := ledger.ParseDate(r.Date)
	if err != nil {
		return ledger.Draft{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD")
	}
	return ledger.Draft{
		Description: r.Description,
		Amount:      *r.Amount,
		Date:        date,
		Category:    r.Category,
		Type:        ledger.TransactionType(r.Type),
		Status:      ledger.TransactionStatus(r.Status),
	}, nil
}

// MonthRequest represents the month listing query parameters.
type MonthRequest struct {
	Search string `form:"search" binding:"max=100"`
	Type   string `form:"type" binding:"omitempty,type_filter"`
	pagination.PageRequest
}

// MonthResponse is a month with its totals and one page of matching transactions.
type MonthResponse struct {
	Month        ledger.Month                                `json:"month"`
	Settings     ledger.MonthSettings                        `json:"settings"`
	Totals       ledger.Totals                               `json:"totals"`
	Transactions pagination.PageResponse[ledger.Transaction] `json:"transactions"`
}

// TransactionResponse is a transaction along with the save outcome.
type TransactionResponse struct {
	Transaction ledger.Transaction `json:"transaction"`
	Save        services.SaveState `json:"save"`
}

func transactionChanges(tx ledger.Transaction, month ledger.Month) map[string]interface{} {
	return map[string]interface{}{
		"month":  month.String(),
		"type":   tx.Type,
		"status": tx.Status,
		"amount": tx.Amount.StringFixed(2),
	}
}

// GetLedger returns the whole ledger
// @Summary     Get ledger
// @Description Get all twelve months, the categories and the year summary
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.LedgerView "Ledger"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Ledger storage unavailable"
// @Router      /ledger [get]
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.ledgerService.GetLedger(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ledger": view})
}

// GetYearSummary returns the totals of every month
// @Summary     Get year summary
// @Description Get opening, realized and projected totals for all twelve months
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} ledger.MonthSummary "Month summaries"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /ledger/summary [get]
func (h *LedgerHandler) GetYearSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.ledgerService.GetYearSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetMonth returns one month
// @Summary     Get month
// @Description Get the month totals and the transactions matching the search and type filter. Totals always cover the whole month.
// @Tags        months
// @Produce     json
// @Security    BearerAuth
// @Param       month     path  string false "Month name or number (1-12)"
// @Param       search    query string false "Case-insensitive match on description or category"
// @Param       type      query string false "ALL, INCOME or EXPENSE"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Page size"
// @Success     200 {object} MonthResponse "Month"
// @Failure     400 {object} ErrorResponse "Invalid month or filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /months/{month} [get]
func (h *LedgerHandler) GetMonth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := parseMonthParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MonthRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	view, err := h.ledgerService.GetMonth(c.Request.Context(), userID, month, services.MonthQuery{
		Search: req.Search,
		Type:   ledger.TypeFilter(req.Type),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{
		Month:        view.Month,
		Settings:     view.Settings,
		Totals:       view.Totals,
		Transactions: pagination.Slice(view.Transactions, req.PageRequest),
	})
}

// CreateTransaction adds a transaction to a month
// @Summary     Create a transaction
// @Description Add an income or expense at the top of the month's list
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month   path string             true "Month name or number (1-12)"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} TransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /months/{month}/transactions [post]
func (h *LedgerHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := parseMonthParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	draft, err := req.draft()
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, save, err := h.ledgerService.AddTransaction(c.Request.Context(), userID, month, draft)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreateTransaction, "transaction", tx.ID, c.ClientIP(),
		transactionChanges(tx, month))

	c.JSON(http.StatusCreated, TransactionResponse{Transaction: tx, Save: save})
}

// UpdateTransaction replaces a transaction
// @Summary     Update a transaction
// @Description Replace a transaction in place, keeping its position
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month   path string             true "Month name or number (1-12)"
// @Param       id      path string             true "Transaction ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {object} TransactionResponse "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /months/{month}/transactions/{id} [put]
func (h *LedgerHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := parseMonthParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	draft, err := req.draft()
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, save, err := h.ledgerService.UpdateTransaction(c.Request.Context(), userID, month, draft.WithID(c.Param("id")))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdateTransaction, "transaction", tx.ID, c.ClientIP(),
		transactionChanges(tx, month))

	c.JSON(http.StatusOK, TransactionResponse{Transaction: tx, Save: save})
}

// DeleteTransaction removes a transaction
// @Summary     Delete a transaction
// @Description Remove a transaction. Unknown IDs are ignored.
// @Tags        transactions
// @Security    BearerAuth
// @Param       month path string true "Month name or number (1-12)"
// @Param       id    path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /months/{month}/transactions/{id} [delete]
func (h *LedgerHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := parseMonthParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	removed, _, err := h.ledgerService.DeleteTransaction(c.Request.Context(), userID, month, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if removed {
		h.auditService.Log(userID, services.AuditDeleteTransaction, "transaction", id, c.ClientIP(),
			map[string]interface{}{"month": month.String()})
	}

	c.Status(http.StatusNoContent)
}

// ConfirmTransaction marks a pending transaction as confirmed
// @Summary     Confirm a transaction
// @Description Mark a pending transaction as confirmed. Confirming twice has no further effect.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       month path string true "Month name or number (1-12)"
// @Param       id    path string true "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction confirmed"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /months/{month}/transactions/{id}/confirm [post]
func (h *LedgerHandler) ConfirmTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := parseMonthParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, changed, save, err := h.ledgerService.ConfirmTransaction(c.Request.Context(), userID, month, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	if changed {
		h.auditService.Log(userID, services.AuditConfirmTransaction, "transaction", tx.ID, c.ClientIP(),
			map[string]interface{}{"month": month.String()})
	}

	c.JSON(http.StatusOK, TransactionResponse{Transaction: tx, Save: save})
}

// ToggleCarryOver flips whether the month inherits the balance of earlier months
// @Summary     Toggle carry-over
// @Description Flip the month's carry-over flag
// @Tags        months
// @Produce     json
// @Security    BearerAuth
// @Param       month path string true "Month name or number (1-12)"
// @Success     200 {object} map[string]interface{} "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Router      /months/{month}/carry-over/toggle [post]
func (h *LedgerHandler) ToggleCarryOver(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := parseMonthParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, save, err := h.ledgerService.ToggleCarryOver(c.Request.Context(), userID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditToggleCarryOver, "month", month.String(), c.ClientIP(),
		map[string]interface{}{"carry_over_balance": settings.CarryOverBalance})

	c.JSON(http.StatusOK, gin.H{"settings": settings, "save": save})
}
