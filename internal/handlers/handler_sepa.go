package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/ledenbeheer/internal/core/ports/services"
	"github.com/SscSPs/ledenbeheer/internal/dto"
	"github.com/SscSPs/ledenbeheer/internal/middleware"
	"github.com/gin-gonic/gin"
)

type sepaHandler struct {
	sepaService portssvc.SepaExportSvcFacade
}

// RegisterSepaRoutes registers the direct debit export routes.
func RegisterSepaRoutes(rg *gin.RouterGroup, sepaService portssvc.SepaExportSvcFacade) {
	h := &sepaHandler{sepaService: sepaService}

	sepa := rg.Group("/sepa")
	{
		sepa.GET("/preview", h.preview)
		sepa.POST("/batches", h.prepareBatch)
		sepa.GET("/batches/:batchRef", h.getBatch)
		sepa.GET("/batches/:batchRef/xml", h.downloadBatch)
		sepa.POST("/batches/:batchRef/confirm", h.confirmBatch)
		sepa.DELETE("/batches/:batchRef", h.cancelBatch)
	}
}

// preview godoc
// @Summary Preview a SEPA export
// @Description Lists the open fees that a new direct debit batch would collect.
// @Tags sepa
// @Produce json
// @Success 200 {object} dto.SepaPreviewResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /sepa/preview [get]
func (h *sepaHandler) preview(c *gin.Context) {
	eligibility, err := h.sepaService.Preview(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to preview SEPA export")
		return
	}
	c.JSON(http.StatusOK, dto.ToSepaPreviewResponse(eligibility, h.sepaService.Now()))
}

// prepareBatch godoc
// @Summary Prepare a SEPA batch
// @Description Generates a pain.008 document over the eligible fees. The fees are only marked once the batch is confirmed.
// @Tags sepa
// @Accept json
// @Produce json
// @Param request body dto.PrepareSepaBatchRequest true "Requested collection date"
// @Success 201 {object} dto.SepaBatchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "A batch with the same reference is pending"
// @Security BearerAuth
// @Router /sepa/batches [post]
func (h *sepaHandler) prepareBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PrepareSepaBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	executionDate, err := time.Parse(time.DateOnly, req.ExecutionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "executionDate must be formatted as YYYY-MM-DD"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	batch, err := h.sepaService.PrepareBatch(c.Request.Context(), executionDate, userID)
	if err != nil {
		respondWithError(c, err, "Failed to prepare SEPA batch")
		return
	}

	logger.Info("SEPA batch prepared",
		slog.String("batch_ref", batch.BatchRef),
		slog.Int("transactions", len(batch.Fees)),
		slog.String("total", batch.TotalAmount.StringFixed(2)))
	c.JSON(http.StatusCreated, dto.ToSepaBatchResponse(batch, h.sepaService.Now()))
}

// getBatch godoc
// @Summary Get a pending SEPA batch
// @Tags sepa
// @Produce json
// @Param batchRef path string true "Batch reference"
// @Success 200 {object} dto.SepaBatchResponse
// @Failure 410 {object} ErrorResponse
// @Security BearerAuth
// @Router /sepa/batches/{batchRef} [get]
func (h *sepaHandler) getBatch(c *gin.Context) {
	batch, err := h.sepaService.GetPendingBatch(c.Request.Context(), c.Param("batchRef"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve SEPA batch")
		return
	}
	c.JSON(http.StatusOK, dto.ToSepaBatchResponse(batch, h.sepaService.Now()))
}

// downloadBatch godoc
// @Summary Download the pain.008 document of a pending batch
// @Tags sepa
// @Produce application/xml
// @Param batchRef path string true "Batch reference"
// @Success 200 {file} file
// @Failure 410 {object} ErrorResponse
// @Security BearerAuth
// @Router /sepa/batches/{batchRef}/xml [get]
func (h *sepaHandler) downloadBatch(c *gin.Context) {
	batch, err := h.sepaService.GetPendingBatch(c.Request.Context(), c.Param("batchRef"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve SEPA batch")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, batch.FileName()))
	c.Data(http.StatusOK, "application/xml", batch.XML)
}

// confirmBatch godoc
// @Summary Confirm a SEPA batch
// @Description Writes the batch reference onto every included fee in one transaction.
// @Tags sepa
// @Produce json
// @Param batchRef path string true "Batch reference"
// @Success 200 {object} dto.SepaBatchResponse
// @Failure 409 {object} ErrorResponse "A fee changed since the batch was prepared"
// @Failure 410 {object} ErrorResponse
// @Security BearerAuth
// @Router /sepa/batches/{batchRef}/confirm [post]
func (h *sepaHandler) confirmBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	batch, err := h.sepaService.ConfirmBatch(c.Request.Context(), c.Param("batchRef"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to confirm SEPA batch")
		return
	}

	logger.Info("SEPA batch confirmed", slog.String("batch_ref", batch.BatchRef), slog.Int("transactions", len(batch.Fees)))
	c.JSON(http.StatusOK, dto.ToSepaBatchResponse(batch, h.sepaService.Now()))
}

// cancelBatch godoc
// @Summary Cancel a pending SEPA batch
// @Tags sepa
// @Param batchRef path string true "Batch reference"
// @Success 204
// @Failure 410 {object} ErrorResponse
// @Security BearerAuth
// @Router /sepa/batches/{batchRef} [delete]
func (h *sepaHandler) cancelBatch(c *gin.Context) {
	if err := h.sepaService.CancelBatch(c.Request.Context(), c.Param("batchRef")); err != nil {
		respondWithError(c, err, "Failed to cancel SEPA batch")
		return
	}
	c.Status(http.StatusNoContent)
}
