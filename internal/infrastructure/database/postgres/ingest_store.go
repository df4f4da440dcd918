package postgres

import (
	"context"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"fmt"
	"log/slog"
	"time"
)

// IngestStore backs bulk ingestion: upserts by natural id plus sequence repair.
type IngestStore struct {
	db        Querier
	customers *CustomerRepository
	loans     *LoanRepository
	logger    *slog.Logger
}

func NewIngestStore(db Querier, logger *slog.Logger) *IngestStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestStore{
		db:        db,
		customers: NewCustomerRepository(db, logger),
		loans:     NewLoanRepository(db, logger),
		logger:    logger.With("component", "IngestStore"),
	}
}

func (s *IngestStore) UpsertCustomer(ctx context.Context, c *customer.Customer) (bool, error) {
	return s.customers.Upsert(ctx, c)
}

func (s *IngestStore) UpsertLoan(ctx context.Context, l *loan.Loan) (bool, error) {
	return s.loans.Upsert(ctx, l)
}

// SyncSequences moves both id sequences past the largest ingested id.
func (s *IngestStore) SyncSequences(ctx context.Context) error {
	for _, table := range []string{"customers", "loans"} {
		query := fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)`,
			table, table)

		start := time.Now()
		_, err := s.db.Exec(ctx, query)
		recordQuery("SyncSequence", start, err)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to sync id sequence", "table", table, "error", err)
			return translateDBError(err, s.logger)
		}
	}
	s.logger.InfoContext(ctx, "Id sequences synced")
	return nil
}
