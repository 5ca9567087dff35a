package pgsql

import (
	"time"

	"github.com/SscSPs/ledenbeheer/internal/adapters/memory"
	portsrepo "github.com/SscSPs/ledenbeheer/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the PostgreSQL repositories. Reconciliation
// sessions and pending SEPA batches stay in memory.
func NewRepositoryProvider(dbPool *pgxpool.Pool, pendingBatchTTL time.Duration) portsrepo.RepositoryProvider {
	return memory.WithStores(portsrepo.RepositoryProvider{
		FeeRepo:    newPgxFeeRepository(dbPool),
		ScreenRepo: newPgxScreenRepository(dbPool),
		UserRepo:   newPgxUserRepository(dbPool),
	}, pendingBatchTTL)
}
