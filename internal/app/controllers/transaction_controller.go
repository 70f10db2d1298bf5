package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/easepay/easepay/internal/app/models"
	"github.com/easepay/easepay/internal/app/models/dto"
	"github.com/easepay/easepay/internal/app/services"
	"github.com/easepay/easepay/internal/middleware"
)

// recentTransactionLimit caps the rows returned by the recent listing.
const recentTransactionLimit = 10

// TransactionController handles proof-of-payment submission and review
type TransactionController struct {
	txService *services.TransactionService
	logger    zerolog.Logger
}

// NewTransactionController creates a new TransactionController
func NewTransactionController(txService *services.TransactionService, logger zerolog.Logger) *TransactionController {
	return &TransactionController{
		txService: txService,
		logger:    logger,
	}
}

// Create records a student's proof-of-payment submission
// @Summary Submit a transaction
// @Description Records a proof-of-payment submission as pending review and assigns a payment reference.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.APIResponse "Transaction recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid submission"
// @Router /transactions [post]
func (c *TransactionController) Create(ctx *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	tx, err := c.txService.Create(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("matricNumber", req.MatricNumber).Msg("Failed to record transaction")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Transaction recorded successfully", tx))
}

// List returns the transactions visible to the acting admin
// @Summary List transactions
// @Description Returns transactions filtered by the caller's review scope. SuperAdmins see all rows.
// @Tags transactions
// @Produce json
// @Param status query string false "Filter by review status"
// @Param limit query int false "Maximum rows to return"
// @Success 200 {object} dto.APIResponse "Transactions"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Router /transactions/admin [get]
func (c *TransactionController) List(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var params dto.ListTransactionsParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	transactions, err := c.txService.List(ctx.Request.Context(), user, &params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Transactions retrieved", transactions))
}

// ListRecent returns the most recent transactions visible to the acting admin
// @Summary List recent transactions
// @Description Returns the latest transactions within the caller's review scope.
// @Tags transactions
// @Produce json
// @Success 200 {object} dto.APIResponse "Transactions"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Router /transactions/recent [get]
func (c *TransactionController) ListRecent(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	params := dto.ListTransactionsParams{Limit: recentTransactionLimit}
	transactions, err := c.txService.List(ctx.Request.Context(), user, &params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Transactions retrieved", transactions))
}

// ListSuccessful returns reviewed-successful transactions visible to the acting admin
// @Summary List successful transactions
// @Description Returns transactions marked successful within the caller's review scope.
// @Tags transactions
// @Produce json
// @Param limit query int false "Maximum rows to return"
// @Success 200 {object} dto.APIResponse "Transactions"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Router /transactions/admin/success [get]
func (c *TransactionController) ListSuccessful(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var params dto.ListTransactionsParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	params.Status = string(models.StatusSuccessful)

	transactions, err := c.txService.List(ctx.Request.Context(), user, &params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Transactions retrieved", transactions))
}

// GetByID returns one transaction
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} dto.APIResponse "Transaction"
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Router /transactions/{id} [get]
func (c *TransactionController) GetByID(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid transaction ID")))
		return
	}

	tx, err := c.txService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Transaction retrieved", tx))
}

// UpdateStatus records the review outcome for a transaction
// @Summary Update transaction status
// @Description Marks a transaction successful or failed and emails the student the outcome.
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param request body dto.UpdateTransactionStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Router /transactions/{id} [patch]
func (c *TransactionController) UpdateStatus(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid transaction ID")))
		return
	}

	var req dto.UpdateTransactionStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	tx, err := c.txService.UpdateStatus(ctx.Request.Context(), id, models.TransactionStatus(req.Status))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Transaction status updated", tx))
}

// Delete removes a transaction. Restricted to superAdmins.
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} dto.APIResponse "Transaction deleted"
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Router /transactions/{id} [delete]
func (c *TransactionController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid transaction ID")))
		return
	}

	if err := c.txService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Transaction deleted", nil))
}
