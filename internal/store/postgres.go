package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres хранилище поверх таблицы kv_entries.
// Схема создаётся миграциями из каталога migrations.
type Postgres struct {
	DB *sql.DB
}

var _ Store = (*Postgres)(nil)

// NewPostgres открывает подключение к PostgreSQL и проверяет его.
func NewPostgres(ctx context.Context, connectionString string) (*Postgres, error) {
	const op = "store.NewPostgres"

	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Postgres{DB: db}, nil
}

func (p *Postgres) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "store.Postgres.Get"

	var raw []byte
	err := p.DB.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err = json.Unmarshal(raw, result); err != nil {
		return false, fmt.Errorf("%s: %w: %w", op, ErrCorrupt, err)
	}
	return true, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value any) error {
	const op = "store.Postgres.Set"

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO kv_entries (key, value, updated_at)
			  VALUES ($1, $2, NOW())
			  ON CONFLICT (key) DO UPDATE
			  SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err = p.DB.ExecContext(ctx, query, key, string(raw)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	const op = "store.Postgres.Delete"
	if _, err := p.DB.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает пул соединений.
func (p *Postgres) Close() error {
	return p.DB.Close()
}

// Ping проверяет соединение с базой.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}
