package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IdentityStore = (*IdentityRepo)(nil)

// IdentityRepo is the SQLite implementation of the IdentityStore port interface.
// Aliases live in a JSON array column and are matched through json_each.
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
		SELECT u.id, COALESCE(u.topic_name, ''), u.aliases
		FROM users u
		WHERE EXISTS (SELECT 1 FROM json_each(u.aliases) a WHERE a.value = ?)
		ORDER BY u.id
		LIMIT 2
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, alias)
	if err != nil {
		return nil, storeErr(ctx, fmt.Sprintf("find identity by alias %q", alias), err)
	}
	defer rows.Close()

	var users []model.UserIdentity
	for rows.Next() {
		var u model.UserIdentity
		var aliases string
		if err := rows.Scan(&u.ID, &u.TopicName, &aliases); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		if err := json.Unmarshal([]byte(aliases), &u.Aliases); err != nil {
			return nil, fmt.Errorf("decode aliases for user %s: %w", u.ID, err)
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
	const query = `UPDATE users SET topic_name = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, topicName, userID)
	if err != nil {
		return storeErr(ctx, "set topic for user "+userID, err)
	}

	return requireRow(result, "set topic for user "+userID)
}

func requireRow(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: check rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, driven.ErrNotFound)
	}
	return nil
}
