package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portssvc "github.com/SscSPs/ledenbeheer/internal/core/ports/services"
	"github.com/SscSPs/ledenbeheer/internal/dto"
	"github.com/SscSPs/ledenbeheer/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxStatementSize bounds an uploaded statement file.
const maxStatementSize = 5 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// RegisterReconciliationRoutes registers the statement import and confirmation routes.
func RegisterReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := &reconciliationHandler{reconciliationService: reconciliationService}

	rec := rg.Group("/reconciliation")
	{
		rec.POST("/imports", h.importStatement)

		sessions := rec.Group("/sessions/:sessionID")
		sessions.GET("", h.getSession)
		sessions.PUT("/results/:index", h.setManualMatch)
		sessions.POST("/confirm", h.confirmSession)
		sessions.GET("/report.xlsx", h.downloadReport)
		sessions.DELETE("", h.discardSession)
	}
}

// importStatement godoc
// @Summary Import a bank statement
// @Description Parses a CSV or MT940 statement and guesses a fee for every line. Nothing is stored until the session is confirmed.
// @Tags reconciliation
// @Accept multipart/form-data
// @Produce json
// @Param format formData string true "CSV or MT940"
// @Param file formData file true "Statement file"
// @Success 201 {object} dto.ReconciliationSessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliation/imports [post]
func (h *reconciliationHandler) importStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ImportStatementRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn("Invalid statement upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid upload: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if req.File.Size > maxStatementSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: fmt.Sprintf("Statement larger than %d bytes", maxStatementSize)})
		return
	}

	format, err := domain.ParseStatementFormat(req.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	f, err := req.File.Open()
	if err != nil {
		respondWithError(c, err, "Failed to read statement")
		return
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxStatementSize))
	if err != nil {
		respondWithError(c, err, "Failed to read statement")
		return
	}

	session, err := h.reconciliationService.ImportStatement(c.Request.Context(), format, req.File.Filename, content, userID)
	if err != nil {
		respondWithError(c, err, "Failed to import statement")
		return
	}

	logger.Info("Statement imported",
		slog.String("session_id", session.SessionID),
		slog.Int("results", len(session.Results)),
		slog.Int("warnings", len(session.Warnings)))
	c.JSON(http.StatusCreated, dto.ToReconciliationSessionResponse(session, h.reconciliationService.Now()))
}

// getSession godoc
// @Summary Get a reconciliation session
// @Tags reconciliation
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} dto.ReconciliationSessionResponse
// @Failure 410 {object} ErrorResponse "Session expired or unknown"
// @Security BearerAuth
// @Router /reconciliation/sessions/{sessionID} [get]
func (h *reconciliationHandler) getSession(c *gin.Context) {
	session, err := h.reconciliationService.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve session")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationSessionResponse(session, h.reconciliationService.Now()))
}

// setManualMatch godoc
// @Summary Override the match of one statement line
// @Description Assigns an open fee of the session to the line, or clears the match when feeID is null.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param index path int true "Result index"
// @Param request body dto.SetManualMatchRequest true "Fee to assign"
// @Success 200 {object} dto.ReconciliationSessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliation/sessions/{sessionID}/results/{index} [put]
func (h *reconciliationHandler) setManualMatch(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Result index must be a non-negative integer"})
		return
	}

	var req dto.SetManualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	session, err := h.reconciliationService.SetManualMatch(c.Request.Context(), c.Param("sessionID"), index, req.FeeID)
	if err != nil {
		respondWithError(c, err, "Failed to update match")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationSessionResponse(session, h.reconciliationService.Now()))
}

// confirmSession godoc
// @Summary Confirm a reconciliation session
// @Description Marks the matched fees paid in one transaction. An empty index list applies every result.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body dto.ConfirmSessionRequest false "Results to apply"
// @Success 200 {object} dto.ReconciliationSummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "A fee was paid in the meantime"
// @Failure 410 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliation/sessions/{sessionID}/confirm [post]
func (h *reconciliationHandler) confirmSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConfirmSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
			return
		}
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("sessionID")
	summary, err := h.reconciliationService.ConfirmSession(c.Request.Context(), sessionID, req.Indexes, userID)
	if err != nil {
		respondWithError(c, err, "Failed to confirm session")
		return
	}

	logger.Info("Reconciliation confirmed",
		slog.String("session_id", sessionID),
		slog.Int("applied", len(summary.Applied)),
		slog.Int("unresolved", len(summary.Unresolved)),
		slog.Int("conflicts", len(summary.Conflicts)))
	c.JSON(http.StatusOK, dto.ToReconciliationSummaryResponse(summary, h.reconciliationService.Now()))
}

// downloadReport godoc
// @Summary Download the session as a spreadsheet
// @Tags reconciliation
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param sessionID path string true "Session ID"
// @Success 200 {file} file
// @Failure 410 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliation/sessions/{sessionID}/report.xlsx [get]
func (h *reconciliationHandler) downloadReport(c *gin.Context) {
	sessionID := c.Param("sessionID")
	content, err := h.reconciliationService.SessionReport(c.Request.Context(), sessionID)
	if err != nil {
		respondWithError(c, err, "Failed to render report")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="afstemming-%s.xlsx"`, sessionID))
	c.Data(http.StatusOK, xlsxContentType, content)
}

// discardSession godoc
// @Summary Discard a reconciliation session
// @Tags reconciliation
// @Param sessionID path string true "Session ID"
// @Success 204
// @Failure 410 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliation/sessions/{sessionID} [delete]
func (h *reconciliationHandler) discardSession(c *gin.Context) {
	if err := h.reconciliationService.DiscardSession(c.Request.Context(), c.Param("sessionID")); err != nil {
		respondWithError(c, err, "Failed to discard session")
		return
	}
	c.Status(http.StatusNoContent)
}
