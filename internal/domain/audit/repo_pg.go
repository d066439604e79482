package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medinote/medinote/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

// conn resolves through an open transaction first so the entry commits or
// rolls back together with the mutation it records.
func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const entryCols = `id, actor_id, actor_role, action, entity_type, entity_id, label, changes, ip_address, user_agent, recorded_at`

func (r *repoPG) Record(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	var changes []byte
	if e.Changes != nil {
		var err error
		changes, err = json.Marshal(e.Changes)
		if err != nil {
			return fmt.Errorf("audit record: marshal changes: %w", err)
		}
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO audit_log (id, actor_id, actor_role, action, entity_type, entity_id, label, changes, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING recorded_at`,
		e.ID, e.ActorID, e.ActorRole, e.Action, e.EntityType, e.EntityID, e.Label, changes, e.IPAddress, e.UserAgent,
	).Scan(&e.RecordedAt)
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error) {
	where := ``
	args := []interface{}{}
	add := func(cond string, v interface{}) {
		args = append(args, v)
		if where == "" {
			where = ` WHERE `
		} else {
			where += ` AND `
		}
		where += fmt.Sprintf(cond, len(args))
	}
	if f.ActorID != uuid.Nil {
		add(`actor_id = $%d`, f.ActorID)
	}
	if f.Action != "" {
		add(`action = $%d`, f.Action)
	}
	if f.EntityType != "" {
		add(`entity_type = $%d`, f.EntityType)
	}
	if f.EntityID != uuid.Nil {
		add(`entity_id = $%d`, f.EntityID)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM audit_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(`
		SELECT `+entryCols+` FROM audit_log`+where+`
		ORDER BY recorded_at DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var changes []byte
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorRole, &e.Action, &e.EntityType, &e.EntityID,
			&e.Label, &changes, &e.IPAddress, &e.UserAgent, &e.RecordedAt); err != nil {
			return nil, 0, err
		}
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &e.Changes); err != nil {
				return nil, 0, fmt.Errorf("audit list: unmarshal changes: %w", err)
			}
		}
		entries = append(entries, &e)
	}
	return entries, total, rows.Err()
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}
