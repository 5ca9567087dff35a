package services

import (
	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledenbeheer/internal/core/ports/services"
	"github.com/SscSPs/ledenbeheer/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Fee = NewFeeService(repos.FeeRepo, WithFeeDueDays(cfg.FeeDueDays))
	container.Reconciliation = NewReconciliationService(repos.FeeRepo, repos.SessionStore,
		WithSessionTTL(cfg.ReconciliationSessionTTL))
	container.Sepa = NewSepaExportService(repos.FeeRepo, repos.PendingBatchRepo, domain.SepaCreditor{
		Name:       cfg.SepaCreditorName,
		IBAN:       cfg.SepaCreditorIBAN,
		BIC:        cfg.SepaCreditorBIC,
		CreditorID: cfg.SepaCreditorID,
	})
	container.Screen = NewScreenService(repos.ScreenRepo)
	container.User = NewUserService(repos.UserRepo)
	container.TokenService = NewTokenService(cfg)

	if cfg.GoogleEnabled() {
		container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)
	}

	return container
}
