package handlers

import (
	"fmt"

	"github.com/SscSPs/ledenbeheer/cmd/docs"
	portssvc "github.com/SscSPs/ledenbeheer/internal/core/ports/services"
	"github.com/SscSPs/ledenbeheer/internal/middleware"
	"github.com/SscSPs/ledenbeheer/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	loginLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("invalid login rate limit %q: %w", cfg.LoginRateLimit, err)
	}
	publicLimiter, err := middleware.NewMemoryLimiter(cfg.PublicRateLimit)
	if err != nil {
		return fmt.Errorf("invalid public rate limit %q: %w", cfg.PublicRateLimit, err)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	RegisterPublicRoutes(r, publicLimiter, services.Screen)

	// Authentication routes are public and live beside the protected group.
	RegisterAuthRoutes(r.Group("/api/v1"), loginLimiter, services)

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	RegisterFeeRoutes(v1, services.Fee)
	RegisterReconciliationRoutes(v1, services.Reconciliation)
	RegisterSepaRoutes(v1, services.Sepa)
	RegisterScreenRoutes(v1, services.Screen)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
