package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledenbeheer/internal/core/ports/services"
	"github.com/SscSPs/ledenbeheer/internal/dto"
	"github.com/SscSPs/ledenbeheer/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

type screenHandler struct {
	screenService portssvc.ScreenSvcFacade
}

// RegisterScreenRoutes registers the board-only screen management routes.
func RegisterScreenRoutes(rg *gin.RouterGroup, screenService portssvc.ScreenSvcFacade) {
	h := &screenHandler{screenService: screenService}

	screens := rg.Group("/screens")
	{
		screens.GET("", h.listScreens)
		screens.POST("", h.createScreen)
		screens.GET("/:screenID", h.getScreen)
		screens.PUT("/:screenID", h.updateScreen)
		screens.DELETE("/:screenID", h.deleteScreen)
	}
}

// RegisterPublicRoutes registers the unauthenticated display endpoint.
func RegisterPublicRoutes(r gin.IRouter, publicLimiter *limiter.Limiter, screenService portssvc.ScreenSvcFacade) {
	h := &screenHandler{screenService: screenService}

	public := r.Group("/public", middleware.RateLimit(publicLimiter))
	public.GET("/screens/:slug", h.getPublicScreen)
}

// listScreens godoc
// @Summary List public screens
// @Tags screens
// @Produce json
// @Success 200 {array} dto.ScreenResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /screens [get]
func (h *screenHandler) listScreens(c *gin.Context) {
	screens, err := h.screenService.ListScreens(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list screens")
		return
	}

	responses := make([]dto.ScreenResponse, len(screens))
	for i := range screens {
		responses[i] = dto.ToScreenResponse(&screens[i])
	}
	c.JSON(http.StatusOK, responses)
}

// createScreen godoc
// @Summary Create a public screen
// @Tags screens
// @Accept json
// @Produce json
// @Param screen body dto.CreateScreenRequest true "Screen details"
// @Success 201 {object} dto.ScreenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Slug already in use"
// @Security BearerAuth
// @Router /screens [post]
func (h *screenHandler) createScreen(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateScreen", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	screen, err := h.screenService.CreateScreen(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create screen")
		return
	}

	logger.Info("Screen created", slog.String("screen_id", screen.ScreenID), slog.String("slug", screen.Slug))
	c.JSON(http.StatusCreated, dto.ToScreenResponse(screen))
}

// getScreen godoc
// @Summary Get a public screen
// @Tags screens
// @Produce json
// @Param screenID path string true "Screen ID"
// @Success 200 {object} dto.ScreenResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /screens/{screenID} [get]
func (h *screenHandler) getScreen(c *gin.Context) {
	screen, err := h.screenService.GetScreenByID(c.Request.Context(), c.Param("screenID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve screen")
		return
	}
	c.JSON(http.StatusOK, dto.ToScreenResponse(screen))
}

// updateScreen godoc
// @Summary Update a public screen
// @Tags screens
// @Accept json
// @Produce json
// @Param screenID path string true "Screen ID"
// @Param screen body dto.UpdateScreenRequest true "Fields to change"
// @Success 200 {object} dto.ScreenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /screens/{screenID} [put]
func (h *screenHandler) updateScreen(c *gin.Context) {
	var req dto.UpdateScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	screen, err := h.screenService.UpdateScreen(c.Request.Context(), c.Param("screenID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update screen")
		return
	}
	c.JSON(http.StatusOK, dto.ToScreenResponse(screen))
}

// deleteScreen godoc
// @Summary Delete a public screen
// @Tags screens
// @Param screenID path string true "Screen ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /screens/{screenID} [delete]
func (h *screenHandler) deleteScreen(c *gin.Context) {
	if err := h.screenService.DeleteScreen(c.Request.Context(), c.Param("screenID")); err != nil {
		respondWithError(c, err, "Failed to delete screen")
		return
	}
	c.Status(http.StatusNoContent)
}

// getPublicScreen godoc
// @Summary Read an active screen
// @Description Unauthenticated endpoint polled by the displays. Inactive screens are not found.
// @Tags public
// @Produce json
// @Param slug path string true "Screen slug"
// @Success 200 {object} dto.PublicScreenResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /public/screens/{slug} [get]
func (h *screenHandler) getPublicScreen(c *gin.Context) {
	screen, err := h.screenService.GetPublicScreen(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve screen")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.ToPublicScreenResponse(screen))
}
