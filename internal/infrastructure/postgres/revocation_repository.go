package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/opshub/internal/domain/repository"
)

var _ repository.TokenRevocationList = (*RevocationRepo)(nil)

// RevocationRepo tokens cerrados con logout, persistidos hasta su expiración.
type RevocationRepo struct {
	pool *pgxpool.Pool
}

func NewRevocationRepository(pool *pgxpool.Pool) *RevocationRepo {
	return &RevocationRepo{pool: pool}
}

// Revoke registra el jti y purga las entradas vencidas.
func (r *RevocationRepo) Revoke(ctx context.Context, jti string, until time.Time) error {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO revoked_tokens (jti, expires_at) VALUES ($1, $2)
		ON CONFLICT (jti) DO UPDATE SET expires_at = EXCLUDED.expires_at`, jti, until); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= now()`); err != nil {
		return fmt.Errorf("purge revoked tokens: %w", err)
	}
	return nil
}

func (r *RevocationRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1 AND expires_at > now())`, jti,
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}
