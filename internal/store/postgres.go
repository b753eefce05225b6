package store

import (
	"context"
	"embed"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema embed.FS

// Postgres is a pgxpool-backed Store of skill records keyed by an arbitrary
// string id (a player name or an opening identifier).
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and returns a ready Store.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the pool.
func (p *Postgres) Close() { p.pool.Close() }

// Ping verifies connectivity.
func (p *Postgres) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

// Migrate applies the embedded schema.
func (p *Postgres) Migrate(ctx context.Context) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, string(sqlBytes))
	return err
}

// Load fetches the record for key. ok is false when the key has never been
// saved — the caller's missing policy is responsible for constructing a
// default, which a later flush() persists via Save.
func (p *Postgres) Load(ctx context.Context, key string) (Record, bool, error) {
	var rec Record
	err := p.pool.QueryRow(ctx, `
		SELECT mu, sigma, gamma FROM skill_records WHERE key = $1
	`, key).Scan(&rec.Mu, &rec.Sigma, &rec.Gamma)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return rec, true, nil
}

// Save upserts the record for key.
func (p *Postgres) Save(ctx context.Context, key string, rec Record) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO skill_records (key, mu, sigma, gamma)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		  SET mu = EXCLUDED.mu,
		      sigma = EXCLUDED.sigma,
		      gamma = EXCLUDED.gamma,
		      updated_at = now()
	`, key, rec.Mu, rec.Sigma, rec.Gamma)
	return err
}
