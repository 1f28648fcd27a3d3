package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IdentityStore = (*IdentityRepo)(nil)

// IdentityRepo is the PostgreSQL implementation of the IdentityStore port interface.
type IdentityRepo struct {
	db *DB
}

// NewIdentityRepo creates a new IdentityRepo backed by the given DB.
func NewIdentityRepo(db *DB) *IdentityRepo {
	return &IdentityRepo{db: db}
}

// FindByAlias returns at most two identities whose aliases contain alias.
func (r *IdentityRepo) FindByAlias(ctx context.Context, alias string) ([]model.UserIdentity, error) {
	const query = `
		SELECT id, COALESCE(topic_name, ''), aliases
		FROM users
		WHERE aliases @> ARRAY[$1]::text[]
		ORDER BY id
		LIMIT 2
	`

	rows, err := r.db.SQL.QueryContext(ctx, query, alias)
	if err != nil {
		return nil, storeErr(ctx, fmt.Sprintf("find identity by alias %q", alias), err)
	}
	defer rows.Close()

	var users []model.UserIdentity
	for rows.Next() {
		var u model.UserIdentity
		if err := rows.Scan(&u.ID, &u.TopicName, pq.Array(&u.Aliases)); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr(ctx, "iterate identities", err)
	}

	return users, nil
}

// SetTopicName updates the topic assigned to a user.
func (r *IdentityRepo) SetTopicName(ctx context.Context, userID, topicName string) error {
	const query = `UPDATE users SET topic_name = $1 WHERE id = $2`

	result, err := r.db.SQL.ExecContext(ctx, query, topicName, userID)
	if err != nil {
		return storeErr(ctx, "set topic for user "+userID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set topic for user %s: check rows affected: %w", userID, err)
	}
	if n == 0 {
		return fmt.Errorf("set topic for user %s: %w", userID, driven.ErrNotFound)
	}

	return nil
}
