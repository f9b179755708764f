package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"github.com/phrazzld/magicshop-api/internal/store"
)

// PostgresTokenStore implements store.TokenStore.
type PostgresTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTokenStore creates a new PostgreSQL implementation of the TokenStore interface.
func NewPostgresTokenStore(db store.DBTX, logger *slog.Logger) *PostgresTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "token_store")),
	}
}

var _ store.TokenStore = (*PostgresTokenStore)(nil)

// Revoke implements store.TokenStore.Revoke
func (s *PostgresTokenStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES ($1, $2) ON CONFLICT (jti) DO NOTHING`,
		jti, expiresAt.UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to revoke token",
			slog.String("error", err.Error()))
		return false, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}
	return n == 1, nil
}

// IsRevoked implements store.TokenStore.IsRevoked
func (s *PostgresTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti,
	).Scan(&revoked)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check token revocation",
			slog.String("error", err.Error()))
		return false, MapError(err)
	}
	return revoked, nil
}

// PurgeExpired implements store.TokenStore.PurgeExpired
func (s *PostgresTokenStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < $1`, now.UTC())
	if err != nil {
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}
	if n > 0 {
		logger.FromContextOrDefault(ctx, s.logger).Debug("purged expired revocations",
			slog.Int64("count", n))
	}
	return n, nil
}
