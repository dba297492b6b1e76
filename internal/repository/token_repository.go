package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenKey is the fixed storage key the bearer token lives under.
const TokenKey = "jwtToken"

// TokenStore persists the bearer token between runs.
// Token returns "" and no error when nothing is stored.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	DeleteToken(ctx context.Context) error
}

type PostgresTokenRepository struct {
	db  *pgxpool.Pool
	key string
}

func NewPostgresTokenRepository(db *pgxpool.Pool) *PostgresTokenRepository {
	return &PostgresTokenRepository{db: db, key: TokenKey}
}

// Migrate creates the token table if it does not exist.
func (r *PostgresTokenRepository) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS client_tokens (
		key        TEXT PRIMARY KEY,
		token      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("failed to create client_tokens: %w", err)
	}
	return nil
}

// RunAtomic executes a function within a transaction
func (r *PostgresTokenRepository) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// no-op once committed
	defer tx.Rollback(ctx)

	ctx = context.WithValue(ctx, txKey{}, tx)

	if err := fn(ctx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type txKey struct{}

func (r *PostgresTokenRepository) getExecutor(ctx context.Context) PgxExecutor {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.db
}

// PgxExecutor is an interface that matches both *pgx.Conn/Pool and pgx.Tx
type PgxExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PostgresTokenRepository) Token(ctx context.Context) (string, error) {
	var token string
	err := r.getExecutor(ctx).QueryRow(ctx, "SELECT token FROM client_tokens WHERE key = $1", r.key).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get token: %w", err)
	}
	return token, nil
}

// SaveToken replaces the stored token.
func (r *PostgresTokenRepository) SaveToken(ctx context.Context, token string) error {
	return r.RunAtomic(ctx, func(ctx context.Context) error {
		if err := r.DeleteToken(ctx); err != nil {
			return err
		}
		_, err := r.getExecutor(ctx).Exec(ctx, "INSERT INTO client_tokens (key, token) VALUES ($1, $2)", r.key, token)
		if err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}
		return nil
	})
}

func (r *PostgresTokenRepository) DeleteToken(ctx context.Context) error {
	_, err := r.getExecutor(ctx).Exec(ctx, "DELETE FROM client_tokens WHERE key = $1", r.key)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
