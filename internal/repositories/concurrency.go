package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/utils"
)

// maxUpdateAttempts bounds the optimistic-locking loop for every entity.
const maxUpdateAttempts = 3

// VersionedRecord is a row guarded by row_version. Records are pointers, so
// the zero value is nil and signals a missing row.
type VersionedRecord interface {
	comparable
	GetID() string
	GetRowVersion() int64
	SetRowVersion(int64)
}

type UpdateIfVersionFunc[T VersionedRecord] func(
	ctx context.Context,
	record T,
	expectedVersion int64,
) (pgconn.CommandTag, error)

type GetByIDFunc[T VersionedRecord] func(ctx context.Context, id string) (T, error)

// WithRetry loads the record, applies mutate and writes it back guarded by
// the version it read. A lost race reloads and reapplies mutate, so mutate
// must be safe to run more than once. Missing rows give pgx.ErrNoRows;
// running out of attempts gives utils.ErrRowVersionConflict.
func WithRetry[T VersionedRecord](
	ctx context.Context,
	attempts int,
	id string,
	getByID GetByIDFunc[T],
	updateIfVersion UpdateIfVersionFunc[T],
	mutate func(T) error,
) error {
	var zero T
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := getByID(ctx, id)
		if err != nil {
			return err
		}
		if record == zero {
			return pgx.ErrNoRows
		}

		read := record.GetRowVersion()
		if err := mutate(record); err != nil {
			return err
		}
		tag, err := updateIfVersion(ctx, record, read)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			record.SetRowVersion(read + 1)
			return nil
		}
	}
	return fmt.Errorf("%w: %q still contended after %d attempts", utils.ErrRowVersionConflict, id, attempts)
}
