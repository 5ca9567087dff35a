package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledenbeheer/internal/core/ports/services"
	"github.com/SscSPs/ledenbeheer/internal/dto"
	"github.com/SscSPs/ledenbeheer/internal/middleware"
	"github.com/gin-gonic/gin"
)

// feeHandler handles HTTP requests related to membership fees.
type feeHandler struct {
	feeService portssvc.FeeSvcFacade
}

// RegisterFeeRoutes registers routes related to fees.
func RegisterFeeRoutes(rg *gin.RouterGroup, feeService portssvc.FeeSvcFacade) {
	h := &feeHandler{feeService: feeService}

	fees := rg.Group("/fees")
	{
		fees.GET("", h.listFees)
		fees.POST("", h.createFee)
		fees.POST("/generate", h.generateFees)
		fees.GET("/:feeID", h.getFee)
	}
}

// listFees godoc
// @Summary List fees
// @Description Lists fees newest due date first. OVERDUE is derived from the due date at request time.
// @Tags fees
// @Produce json
// @Param status query string false "OPEN, PAID or OVERDUE"
// @Param method query string false "SEPA, OVERSCHRIJVING, BANCONTACT or CASH"
// @Param memberNumber query string false "Member number"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token of the next page"
// @Success 200 {object} dto.ListFeesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /fees [get]
func (h *feeHandler) listFees(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListFeesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid fee list parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	filter := portsrepo.FeeFilter{
		Status:       domain.FeeStatus(params.Status),
		Method:       domain.PaymentMethod(params.Method),
		MemberNumber: params.MemberNumber,
	}
	fees, next, err := h.feeService.ListFees(c.Request.Context(), filter, params.Limit, params.NextToken)
	if err != nil {
		respondWithError(c, err, "Failed to list fees")
		return
	}

	c.JSON(http.StatusOK, dto.ListFeesResponse{
		Fees:      dto.ToFeeResponses(fees, h.feeService.Now()),
		NextToken: next,
	})
}

// createFee godoc
// @Summary Create a fee
// @Description Creates a single OPEN fee for a member and period.
// @Tags fees
// @Accept json
// @Produce json
// @Param fee body dto.CreateFeeRequest true "Fee details"
// @Success 201 {object} dto.FeeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Member already has a fee for this period"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /fees [post]
func (h *feeHandler) createFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFee", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fee, err := h.feeService.CreateFee(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create fee")
		return
	}

	logger.Info("Fee created", slog.String("fee_id", fee.FeeID), slog.String("member_number", fee.MemberNumber))
	c.JSON(http.StatusCreated, dto.ToFeeResponse(fee, h.feeService.Now()))
}

// generateFees godoc
// @Summary Generate fees for a period
// @Description Creates one fee per listed member. Members that already have a fee for the period are skipped.
// @Tags fees
// @Accept json
// @Produce json
// @Param request body dto.GenerateFeesRequest true "Period and members"
// @Success 201 {object} dto.GenerateFeesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /fees/generate [post]
func (h *feeHandler) generateFees(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GenerateFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GenerateFees", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	created, skipped, err := h.feeService.GenerateFees(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to generate fees")
		return
	}
	if skipped == nil {
		skipped = []string{}
	}

	logger.Info("Fees generated", slog.Int("created", len(created)), slog.Int("skipped", len(skipped)))
	c.JSON(http.StatusCreated, dto.GenerateFeesResponse{
		Created: dto.ToFeeResponses(created, h.feeService.Now()),
		Skipped: skipped,
	})
}

// getFee godoc
// @Summary Get a fee
// @Tags fees
// @Produce json
// @Param feeID path string true "Fee ID"
// @Success 200 {object} dto.FeeResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /fees/{feeID} [get]
func (h *feeHandler) getFee(c *gin.Context) {
	fee, err := h.feeService.GetFeeByID(c.Request.Context(), c.Param("feeID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve fee")
		return
	}
	c.JSON(http.StatusOK, dto.ToFeeResponse(fee, h.feeService.Now()))
}
