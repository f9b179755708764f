package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTransaction(t *testing.T) {
	fnErr := errors.New("function failed")

	tests := []struct {
		name        string
		setup       func(mock sqlmock.Sqlmock)
		fn          TxFn
		wantErr     error
		wantMessage string
	}{
		{
			name: "commits on success",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
			fn: func(ctx context.Context, tx *sql.Tx) error { return nil },
		},
		{
			name: "rolls back on function error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:      func(ctx context.Context, tx *sql.Tx) error { return fnErr },
			wantErr: fnErr,
		},
		{
			name: "begin failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
			},
			fn:          func(ctx context.Context, tx *sql.Tx) error { return nil },
			wantErr:     ErrTransactionFailed,
			wantMessage: "failed to begin transaction",
		},
		{
			name: "commit failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("commit failed"))
			},
			fn:          func(ctx context.Context, tx *sql.Tx) error { return nil },
			wantErr:     ErrTransactionFailed,
			wantMessage: "failed to commit transaction",
		},
		{
			name: "rollback failure keeps original error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(errors.New("rollback failed"))
			},
			fn:          func(ctx context.Context, tx *sql.Tx) error { return fnErr },
			wantErr:     fnErr,
			wantMessage: "error rolling back transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setup(mock)

			err = RunInTransaction(context.Background(), db, tt.fn)

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMessage != "" {
				assert.Contains(t, err.Error(), tt.wantMessage)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransaction_Panic(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
