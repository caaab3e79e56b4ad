package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Bilal-BS/PF-Tracker/internal/models"
	"github.com/Bilal-BS/PF-Tracker/internal/pagination"
	"github.com/Bilal-BS/PF-Tracker/internal/services"
	"github.com/Bilal-BS/PF-Tracker/internal/validator"
)

// TransactionHandler handles transaction and summary requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
	summaryService     services.SummaryServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(
	transactionService services.TransactionServicer,
	summaryService services.SummaryServicer,
	auditService services.AuditServicer,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		summaryService:     summaryService,
		auditService:       auditService,
	}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	Type        models.EntryType `json:"type" binding:"required,entry_type"`
	Amount      decimal.Decimal  `json:"amount" swaggertype:"number" binding:"required,gte=0.01,lte=9999999999.99"`
	Description string           `json:"description" binding:"required,notblank,max=255"`
	Date        string           `json:"date" binding:"required" example:"2024-01-15"`
	CategoryID  string           `json:"categoryId" binding:"required,uuid"`
	Notes       *string          `json:"notes" binding:"omitempty,max=500"`
}

// UpdateTransactionRequest represents the request payload for updating a
// transaction. Omitted fields keep their current value; an empty notes string
// clears the notes.
type UpdateTransactionRequest struct {
	Type        *models.EntryType `json:"type" binding:"omitempty,entry_type"`
	Amount      *decimal.Decimal  `json:"amount" swaggertype:"number" binding:"omitempty,gte=0.01,lte=9999999999.99"`
	Description *string           `json:"description" binding:"omitempty,notblank,max=255"`
	Date        *string           `json:"date" example:"2024-01-15"`
	CategoryID  *string           `json:"categoryId" binding:"omitempty,uuid"`
	Notes       *string           `json:"notes" binding:"omitempty,max=500"`
}

// ListTransactionsQuery holds pagination and filters of the transaction listing.
type ListTransactionsQuery struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Type       string `form:"type" binding:"omitempty,entry_type"`
	CategoryID string `form:"categoryId" binding:"omitempty,uuid"`
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
}

// SummaryQuery holds the date window and grouping of a summary request.
type SummaryQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	GroupBy   string `form:"groupBy" binding:"omitempty,oneof=month year"`
}

// TransactionListResponse is one page of transactions.
type TransactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Pagination   pagination.Meta      `json:"pagination"`
}

// TransactionResponse wraps a single transaction.
type TransactionResponse struct {
	Message     string             `json:"message,omitempty"`
	Transaction models.Transaction `json:"transaction"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record an income or expense in one of the user's categories of the same type
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction data"
// @Success     201 {object} TransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input, invalid category or type mismatch"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, validator.InvalidInput(err))
		return
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(userID, services.TransactionInput{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
		CategoryID:  req.CategoryID,
		Notes:       req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreateTransaction, "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": transaction.Type, "amount": transaction.Amount.String(), "categoryId": transaction.CategoryID})

	c.JSON(http.StatusCreated, TransactionResponse{
		Message:     "Transaction created successfully",
		Transaction: *transaction,
	})
}

// GetUserTransactions lists the user's transactions
// @Summary     List transactions
// @Description One page of the user's transactions, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page       query int    false "Page number (default 1)"
// @Param       limit      query int    false "Page size (default 50, max 100)"
// @Param       type       query string false "Filter by type" Enums(INCOME, EXPENSE)
// @Param       categoryId query string false "Filter by category"
// @Param       startDate  query string false "Earliest date (YYYY-MM-DD or RFC 3339)"
// @Param       endDate    query string false "Latest date, inclusive (YYYY-MM-DD or RFC 3339)"
// @Success     200 {object} TransactionListResponse "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, validator.InvalidInput(err))
		return
	}

	startDate, endDate, err := parseDateRange(query.StartDate, query.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter := services.TransactionFilter{StartDate: startDate, EndDate: endDate}
	if query.Type != "" {
		t := models.EntryType(query.Type)
		filter.Type = &t
	}
	if query.CategoryID != "" {
		filter.CategoryID = &query.CategoryID
	}

	page, err := h.transactionService.ListTransactions(userID,
		pagination.PageRequest{Page: query.Page, Limit: query.Limit}, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Transactions: page.Items,
		Pagination:   page.Meta,
	})
}

// GetTransactionByID returns one transaction
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Transaction: *transaction})
}

// UpdateTransaction applies a partial update
// @Summary     Update a transaction
// @Description Change any subset of fields. Type and category are re-checked together.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to change"
// @Success     200 {object} TransactionResponse "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input, invalid category or type mismatch"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, validator.InvalidInput(err))
		return
	}

	fields := services.TransactionUpdateFields{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Notes:       req.Notes,
	}
	if req.Date != nil {
		date, err := parseDate("date", *req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
		fields.Date = &date
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdateTransaction, "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": transaction.Type, "amount": transaction.Amount.String(), "categoryId": transaction.CategoryID})

	c.JSON(http.StatusOK, TransactionResponse{
		Message:     "Transaction updated successfully",
		Transaction: *transaction,
	})
}

// DeleteTransaction deletes a transaction
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDeleteTransaction, "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}

// GetSummary reports totals for a date window
// @Summary     Transaction summary
// @Description Income, expenses and balance, a per-category breakdown and a monthly or yearly series
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       startDate query string false "Earliest date (YYYY-MM-DD or RFC 3339)"
// @Param       endDate   query string false "Latest date, inclusive (YYYY-MM-DD or RFC 3339)"
// @Param       groupBy   query string false "Series bucket" Enums(month, year)
// @Success     200 {object} services.Summary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query SummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, validator.InvalidInput(err))
		return
	}

	startDate, endDate, err := parseDateRange(query.StartDate, query.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.summaryService.GetSummary(userID, services.SummaryQuery{
		StartDate: startDate,
		EndDate:   endDate,
		GroupBy:   services.Period(query.GroupBy),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
