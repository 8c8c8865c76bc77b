package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/utils"
)

func TestWithRetrySucceedsAfterConflict(t *testing.T) {
	stored := &models.Team{ID: uuid.New(), Name: "Asha"}
	stored.RowVersion = 1

	attempts := 0
	get := func(ctx context.Context, id string) (*models.Team, error) {
		cp := *stored
		return &cp, nil
	}
	update := func(ctx context.Context, t *models.Team, expected int64) (pgconn.CommandTag, error) {
		attempts++
		if attempts == 1 {
			// concurrent writer bumped the version
			return pgconn.CommandTag("UPDATE 0"), nil
		}
		return pgconn.CommandTag("UPDATE 1"), nil
	}

	err := WithRetry(context.Background(), 3, stored.GetID(), get, update, func(t *models.Team) error {
		t.Name = "Asha R"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestWithRetryGivesUp(t *testing.T) {
	stored := &models.Team{ID: uuid.New()}
	get := func(ctx context.Context, id string) (*models.Team, error) { return stored, nil }
	update := func(ctx context.Context, t *models.Team, expected int64) (pgconn.CommandTag, error) {
		return pgconn.CommandTag("UPDATE 0"), nil
	}

	err := WithRetry(context.Background(), 3, stored.GetID(), get, update, func(*models.Team) error { return nil })
	require.ErrorIs(t, err, utils.ErrRowVersionConflict)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestWithRetryStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loads := 0
	get := func(ctx context.Context, id string) (*models.Team, error) {
		loads++
		return &models.Team{}, nil
	}
	update := func(ctx context.Context, t *models.Team, expected int64) (pgconn.CommandTag, error) {
		return pgconn.CommandTag("UPDATE 1"), nil
	}
	err := WithRetry(ctx, 3, "x", get, update, func(*models.Team) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, loads)
}

func TestWithRetryMissingRow(t *testing.T) {
	get := func(ctx context.Context, id string) (*models.Team, error) { return nil, nil }
	update := func(ctx context.Context, t *models.Team, expected int64) (pgconn.CommandTag, error) {
		t.Name = "unreachable"
		return nil, nil
	}
	err := WithRetry(context.Background(), 3, "x", get, update, func(*models.Team) error { return nil })
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}

func TestWithRetryMutateError(t *testing.T) {
	stored := &models.Team{ID: uuid.New()}
	get := func(ctx context.Context, id string) (*models.Team, error) { return stored, nil }
	update := func(ctx context.Context, t *models.Team, expected int64) (pgconn.CommandTag, error) {
		return pgconn.CommandTag("UPDATE 1"), nil
	}
	boom := errors.New("boom")
	err := WithRetry(context.Background(), 3, stored.GetID(), get, update, func(*models.Team) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestVersionedTail(t *testing.T) {
	sql, args := versionedTail("UPDATE t SET a=$1", []any{"x"}, "id-1", true, 4)
	assert.Equal(t, "UPDATE t SET a=$1, row_version=row_version+1 WHERE id=$2 AND row_version=$3", sql)
	assert.Equal(t, []any{"x", "id-1", int64(4)}, args)

	sql, args = versionedTail("UPDATE t SET a=$1", []any{"x"}, "id-1", false, 0)
	assert.Equal(t, "UPDATE t SET a=$1, row_version=row_version+1 WHERE id=$2", sql)
	assert.Len(t, args, 2)
}

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Equal(t, "", w.sql())
	w.add("status=$%d", "pending")
	w.add("email ILIKE $%d", "%a%")
	w.addRaw("is_active")
	assert.Equal(t, " WHERE status=$1 AND email ILIKE $2 AND is_active", w.sql())
	assert.Equal(t, "$3", w.next(10))
	assert.Len(t, w.args, 3)
}
