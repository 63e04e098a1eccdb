package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/groupusers/internal/models"
	"github.com/mmynk/groupusers/internal/storage"
)

const groupColumns = `g.id, g.creator_id, g.name, g.description, g.group_url, g.created_at`

// GetGroup retrieves a group by ID, including its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, id int64) (*models.Group, error) {
	group, err := scanGroup(s.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups g WHERE g.id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := s.loadMembers(ctx, s.db, group); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroupByURL retrieves a group by its group URL, including its members.
func (s *SQLiteStore) GetGroupByURL(ctx context.Context, groupURL string) (*models.Group, error) {
	group, err := scanGroup(s.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups g WHERE g.group_url = ?`, groupURL,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %q: %w", groupURL, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by url: %w", err)
	}

	if err := s.loadMembers(ctx, s.db, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroupsByUser retrieves all groups the user created or belongs to.
func (s *SQLiteStore) ListGroupsByUser(ctx context.Context, userID int64) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT `+groupColumns+`
		 FROM groups g
		 LEFT JOIN group_members gm ON gm.group_id = g.id
		 WHERE g.creator_id = ? OR gm.user_id = ?
		 ORDER BY g.created_at, g.id`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by user: %w", err)
	}

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		if err := s.loadMembers(ctx, s.db, group); err != nil {
			return nil, err
		}
	}

	return groups, nil
}

// SaveGroup inserts or updates a group and replaces its member list.
// The group URL of an existing group is never changed.
func (s *SQLiteStore) SaveGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if group.ID == 0 {
		if group.CreatedAt == 0 {
			group.CreatedAt = time.Now().Unix()
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO groups (creator_id, name, description, group_url, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			group.CreatorID, group.Name, group.Description, group.GroupURL, group.CreatedAt,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to insert group %q: %w", group.GroupURL, storage.ErrDuplicateGroupURL)
		}
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read group id: %w", err)
		}
		group.ID = id
	} else {
		res, err := tx.ExecContext(ctx,
			"UPDATE groups SET name = ?, description = ? WHERE id = ?",
			group.Name, group.Description, group.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update group: %w", err)
		}

		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("group %d: %w", group.ID, storage.ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = ?", group.ID); err != nil {
			return fmt.Errorf("failed to delete old members: %w", err)
		}
	}

	for i, member := range group.Members {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, user_id, position) VALUES (?, ?, ?)
			 ON CONFLICT DO NOTHING`,
			group.ID, member.ID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanGroup(row rowScanner) (*models.Group, error) {
	group := &models.Group{}
	err := row.Scan(
		&group.ID,
		&group.CreatorID,
		&group.Name,
		&group.Description,
		&group.GroupURL,
		&group.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return group, nil
}

// loadMembers fills group.Members in join order.
func (s *SQLiteStore) loadMembers(ctx context.Context, q queryer, group *models.Group) error {
	rows, err := q.QueryContext(ctx,
		`SELECT u.id, u.email, u.display_name, u.password_hash, u.created_at, u.updated_at
		 FROM group_members gm
		 JOIN users u ON u.id = gm.user_id
		 WHERE gm.group_id = ?
		 ORDER BY gm.position`,
		group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get group members: %w", err)
	}

	members := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, user)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate members: %w", err)
	}

	if err := loadRelations(ctx, q, members); err != nil {
		return err
	}
	group.Members = members
	return nil
}
