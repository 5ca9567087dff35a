package services

import "time"

// Clock exposes the time a service classifies against, so responses derive
// OVERDUE from the same instant the service used.
type Clock interface {
	Now() time.Time
}

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Fee                FeeSvcFacade
	Reconciliation     ReconciliationSvcFacade
	Sepa               SepaExportSvcFacade
	Screen             ScreenSvcFacade
	User               UserSvcFacade
	TokenService       TokenSvcFacade
	GoogleOAuthHandler GoogleOAuthHandlerSvcFacade // nil when Google sign-in is not configured
}
