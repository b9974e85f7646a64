// Package postgres implements store.Store on top of a single Postgres
// table of (pk, sk, attrs jsonb) rows, giving the DynamoDB-shaped contract
// the reservation core was designed against a real relational backend.
// Conditional writes and TransactWrite run inside one pgx.Serializable
// transaction: each touched key is locked with SELECT ... FOR UPDATE, the
// condition is evaluated in Go against the decoded attrs, and only then is
// the write applied — the same "lock, check, act" shape the teacher's
// reservation repository uses for holding seats.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/holdline/ticketcore/internal/store"
)

// DDL is the schema this store expects to already exist. ticketcore does
// not run migrations itself; an operator applies this once per environment,
// the way the teacher's repo expects its own schema to pre-exist.
const DDL = `
CREATE TABLE IF NOT EXISTS items (
	pk    TEXT NOT NULL,
	sk    TEXT NOT NULL,
	attrs JSONB NOT NULL,
	PRIMARY KEY (pk, sk)
);
`

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func decode(raw []byte) (map[string]any, error) {
	var attrs map[string]any
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

func (s *Store) Get(ctx context.Context, pk, sk string) (*store.Item, error) {
	const op = "postgres.Get"

	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT attrs FROM items WHERE pk=$1 AND sk=$2`, pk, sk).Scan(&raw)
	if err != nil {
		if translated := translateDBErr(err); translated == store.ErrNotFound {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}
	attrs, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &store.Item{PK: pk, SK: sk, Attrs: attrs}, nil
}

func getTx(ctx context.Context, tx pgx.Tx, pk, sk string) (*store.Item, error) {
	var raw []byte
	err := tx.QueryRow(ctx, `SELECT attrs FROM items WHERE pk=$1 AND sk=$2 FOR UPDATE`, pk, sk).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	attrs, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return &store.Item{PK: pk, SK: sk, Attrs: attrs}, nil
}

func putTx(ctx context.Context, tx pgx.Tx, pk, sk string, attrs map[string]any) error {
	raw, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO items (pk, sk, attrs) VALUES ($1, $2, $3)
		ON CONFLICT (pk, sk) DO UPDATE SET attrs = EXCLUDED.attrs`, pk, sk, raw)
	return err
}

func deleteTx(ctx context.Context, tx pgx.Tx, pk, sk string) error {
	_, err := tx.Exec(ctx, `DELETE FROM items WHERE pk=$1 AND sk=$2`, pk, sk)
	return err
}

func (s *Store) Put(ctx context.Context, pk, sk string, attrs map[string]any, cond store.Condition) error {
	const op = "postgres.Put"

	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		cur, err := getTx(ctx, tx, pk, sk)
		if err != nil {
			return err
		}
		if cond != nil && !cond(cur) {
			return store.ErrConditionFailed
		}
		return putTx(ctx, tx, pk, sk, attrs)
	})
	if err != nil {
		if err == store.ErrConditionFailed {
			return err
		}
		return fmt.Errorf("%s: %w", op, translateDBErr(err))
	}
	return nil
}

func (s *Store) UpdateConditional(ctx context.Context, pk, sk string, mutate func(map[string]any), cond store.Condition) error {
	const op = "postgres.UpdateConditional"

	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		cur, err := getTx(ctx, tx, pk, sk)
		if err != nil {
			return err
		}
		if cond != nil && !cond(cur) {
			return store.ErrConditionFailed
		}
		if cur == nil {
			return store.ErrNotFound
		}
		mutate(cur.Attrs)
		return putTx(ctx, tx, pk, sk, cur.Attrs)
	})
	if err != nil {
		if err == store.ErrConditionFailed || err == store.ErrNotFound {
			return err
		}
		return fmt.Errorf("%s: %w", op, translateDBErr(err))
	}
	return nil
}

func (s *Store) Query(ctx context.Context, pk string, skPrefix string) ([]store.Item, error) {
	const op = "postgres.Query"

	var rows pgx.Rows
	var err error
	if skPrefix == "" {
		rows, err = s.pool.Query(ctx, `SELECT sk, attrs FROM items WHERE pk=$1`, pk)
	} else {
		rows, err = s.pool.Query(ctx, `SELECT sk, attrs FROM items WHERE pk=$1 AND sk LIKE $2`, pk, skPrefix+"%")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []store.Item
	for rows.Next() {
		var sk string
		var raw []byte
		if err := rows.Scan(&sk, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		attrs, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, store.Item{PK: pk, SK: sk, Attrs: attrs})
	}
	return out, rows.Err()
}

func (s *Store) Scan(ctx context.Context, filter func(store.Item) bool) ([]store.Item, error) {
	const op = "postgres.Scan"

	rows, err := s.pool.Query(ctx, `SELECT pk, sk, attrs FROM items`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []store.Item
	for rows.Next() {
		var pk, sk string
		var raw []byte
		if err := rows.Scan(&pk, &sk, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		attrs, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item := store.Item{PK: pk, SK: sk, Attrs: attrs}
		if filter(item) {
			out = append(out, item)
		}
	}
	return out, rows.Err()
}

// TransactWrite locks every key the batch touches, evaluates every op's
// condition against the locked snapshot, and only then applies the whole
// batch — so a condition failure on the last op still rolls back every
// earlier op in the same call, matching DynamoDB's TransactWriteItems
// all-or-nothing semantics.
func (s *Store) TransactWrite(ctx context.Context, ops []store.Op) error {
	const op = "postgres.TransactWrite"

	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		current := make([]*store.Item, len(ops))
		for i, o := range ops {
			cur, err := getTx(ctx, tx, o.PK, o.SK)
			if err != nil {
				return err
			}
			if o.Condition != nil && !o.Condition(cur) {
				return store.ErrTransactionCancelled
			}
			if o.Kind == store.OpUpdate && cur == nil {
				return store.ErrTransactionCancelled
			}
			current[i] = cur
		}

		for i, o := range ops {
			switch o.Kind {
			case store.OpPut:
				if err := putTx(ctx, tx, o.PK, o.SK, o.Item); err != nil {
					return err
				}
			case store.OpUpdate:
				attrs := current[i].Attrs
				o.Mutate(attrs)
				if err := putTx(ctx, tx, o.PK, o.SK, attrs); err != nil {
					return err
				}
			case store.OpDelete:
				if err := deleteTx(ctx, tx, o.PK, o.SK); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if err == store.ErrTransactionCancelled {
			return err
		}
		translated := translateDBErr(err)
		if translated == store.ErrConditionFailed {
			return store.ErrTransactionCancelled
		}
		return fmt.Errorf("%s: %w", op, translated)
	}
	return nil
}
