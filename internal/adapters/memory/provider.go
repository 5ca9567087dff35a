package memory

import (
	"time"

	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
)

// NewRepositoryProvider wires in-memory repositories and stores.
func NewRepositoryProvider(pendingBatchTTL time.Duration) portsrepo.RepositoryProvider {
	return WithStores(portsrepo.RepositoryProvider{
		FeeRepo:    NewFeeRepository(),
		ScreenRepo: NewScreenRepository(),
		UserRepo:   NewUserRepository(),
	}, pendingBatchTTL)
}

// WithStores adds the in-memory session and pending batch stores to a
// provider. Both stores are always in memory, even with a database.
func WithStores(p portsrepo.RepositoryProvider, pendingBatchTTL time.Duration) portsrepo.RepositoryProvider {
	p.SessionStore = NewSessionStore()
	p.PendingBatchRepo = NewPendingBatchStore(pendingBatchTTL)
	return p
}
