package confirm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	id "tandem/pkg/domain"
)

// PostgresStore persists actions in PostgreSQL. Per-key serialization comes
// from SELECT ... FOR UPDATE inside a transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Schema is the DDL for the actions table. Exposed so migrations and
// integration tests share one definition.
const Schema = `
CREATE TABLE IF NOT EXISTS confirm_actions (
    couple_id  TEXT        NOT NULL,
    kind       TEXT        NOT NULL,
    target_id  TEXT        NOT NULL,
    id         UUID        NOT NULL,
    initiator  TEXT        NOT NULL,
    partner1   BOOLEAN     NOT NULL,
    partner2   BOOLEAN     NOT NULL,
    status     TEXT        NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    ttl_ms     BIGINT      NOT NULL,
    PRIMARY KEY (couple_id, kind, target_id)
);
CREATE INDEX IF NOT EXISTS confirm_actions_pending_idx
    ON confirm_actions (status, created_at) WHERE status = 'pending';
`

func (s *PostgresStore) Mutate(ctx context.Context, key Key, fn MutateFunc) (*Action, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin mutate tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := scanAction(tx.QueryRow(ctx, `
		SELECT id, initiator, partner1, partner2, status, created_at, ttl_ms
		FROM confirm_actions
		WHERE couple_id = $1 AND kind = $2 AND target_id = $3
		FOR UPDATE`,
		key.Couple.String(), string(key.Kind), key.Target), key)
	if err != nil {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	switch {
	case next == nil && current == nil:
		// Nothing to do.
	case next == nil:
		if _, err := tx.Exec(ctx, `
			DELETE FROM confirm_actions
			WHERE couple_id = $1 AND kind = $2 AND target_id = $3`,
			key.Couple.String(), string(key.Kind), key.Target); err != nil {
			return nil, fmt.Errorf("delete action: %w", err)
		}
	default:
		if _, err := tx.Exec(ctx, `
			INSERT INTO confirm_actions
			    (couple_id, kind, target_id, id, initiator, partner1, partner2, status, created_at, ttl_ms)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (couple_id, kind, target_id) DO UPDATE SET
			    id = EXCLUDED.id,
			    initiator = EXCLUDED.initiator,
			    partner1 = EXCLUDED.partner1,
			    partner2 = EXCLUDED.partner2,
			    status = EXCLUDED.status,
			    created_at = EXCLUDED.created_at,
			    ttl_ms = EXCLUDED.ttl_ms`,
			key.Couple.String(), string(key.Kind), key.Target,
			next.ID, next.Initiator.String(), next.Partner1Confirmed, next.Partner2Confirmed,
			string(next.Status), next.CreatedAt, next.TTL.Milliseconds()); err != nil {
			return nil, fmt.Errorf("upsert action: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit mutate tx: %w", err)
	}
	return next, nil
}

func (s *PostgresStore) Get(ctx context.Context, key Key) (*Action, error) {
	return scanAction(s.pool.QueryRow(ctx, `
		SELECT id, initiator, partner1, partner2, status, created_at, ttl_ms
		FROM confirm_actions
		WHERE couple_id = $1 AND kind = $2 AND target_id = $3`,
		key.Couple.String(), string(key.Kind), key.Target), key)
}

func (s *PostgresStore) ListByCouple(ctx context.Context, couple id.CoupleID) ([]*Action, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT kind, target_id, id, initiator, partner1, partner2, status, created_at, ttl_ms
		FROM confirm_actions
		WHERE couple_id = $1`,
		couple.String())
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var out []*Action
	for rows.Next() {
		var (
			a         Action
			kind      string
			initiator string
			status    string
			ttlMS     int64
		)
		a.Key.Couple = couple
		if err := rows.Scan(&kind, &a.Key.Target, &a.ID, &initiator,
			&a.Partner1Confirmed, &a.Partner2Confirmed, &status, &a.CreatedAt, &ttlMS); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		a.Key.Kind = Kind(kind)
		a.Initiator = id.Partner(initiator)
		a.Status = Status(status)
		a.TTL = time.Duration(ttlMS) * time.Millisecond
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SweepExpired(ctx context.Context, now time.Time) ([]Key, error) {
	rows, err := s.pool.Query(ctx, `
		UPDATE confirm_actions
		SET status = 'expired'
		WHERE status = 'pending'
		  AND created_at + make_interval(secs => ttl_ms / 1000.0) < $1
		RETURNING couple_id, kind, target_id`,
		now)
	if err != nil {
		return nil, fmt.Errorf("sweep expired actions: %w", err)
	}
	defer rows.Close()

	var transitioned []Key
	for rows.Next() {
		var key Key
		var couple, kind string
		if err := rows.Scan(&couple, &kind, &key.Target); err != nil {
			return nil, fmt.Errorf("scan swept key: %w", err)
		}
		key.Couple = id.CoupleID(couple)
		key.Kind = Kind(kind)
		transitioned = append(transitioned, key)
	}
	return transitioned, rows.Err()
}

func (s *PostgresStore) HasConfirmed(ctx context.Context, couple id.CoupleID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
		    SELECT 1 FROM confirm_actions
		    WHERE couple_id = $1 AND status = 'confirmed'
		)`,
		couple.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check confirmed actions: %w", err)
	}
	return exists, nil
}

func scanAction(row pgx.Row, key Key) (*Action, error) {
	var (
		a         Action
		initiator string
		status    string
		ttlMS     int64
	)
	err := row.Scan(&a.ID, &initiator, &a.Partner1Confirmed, &a.Partner2Confirmed, &status, &a.CreatedAt, &ttlMS)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan action: %w", err)
	}
	a.Key = key
	a.Initiator = id.Partner(initiator)
	a.Status = Status(status)
	a.TTL = time.Duration(ttlMS) * time.Millisecond
	return &a, nil
}
