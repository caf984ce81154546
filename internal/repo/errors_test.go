package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	stock := &domain.StockError{ProductID: 1, Available: 0}

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "pgx lock timeout", in: &pgconn.PgError{Code: "55P03"}, want: domain.ErrTransactionConflict},
		{name: "pgx deadlock", in: fmt.Errorf("tx: %w", &pgconn.PgError{Code: "40P01"}), want: domain.ErrTransactionConflict},
		{name: "pq serialization", in: &pq.Error{Code: "40001"}, want: domain.ErrTransactionConflict},
		{name: "deadline", in: context.DeadlineExceeded, want: domain.ErrTransactionConflict},
		{name: "sqlite busy", in: errors.New("database is locked (5) (SQLITE_BUSY)"), want: domain.ErrTransactionConflict},
		{name: "unique", in: &pgconn.PgError{Code: "23505"}, want: domain.ErrConflict},
		{name: "not found", in: gorm.ErrRecordNotFound, want: domain.ErrNotFound},
		{name: "domain passthrough", in: stock, want: domain.ErrInsufficientStock},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, classify(tt.in), tt.want)
		})
	}

	assert.NoError(t, classify(nil))
	assert.False(t, IsRetryable(errors.New("boom")))
}
