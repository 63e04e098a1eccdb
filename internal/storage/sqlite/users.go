package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/groupusers/internal/models"
	"github.com/mmynk/groupusers/internal/storage"
)

const userColumns = `id, email, display_name, password_hash, created_at, updated_at`

// CreateUser inserts a new user into the database and sets user.ID.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, display_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to create user %q: %w", user.Email, storage.ErrDuplicateEmail)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetUser retrieves a user by ID, with follower and friend IDs.
func (s *SQLiteStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	if err := loadRelations(ctx, s.db, []*models.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := loadRelations(ctx, s.db, []*models.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// AddFollower records that followerID follows userID.
func (s *SQLiteStore) AddFollower(ctx context.Context, userID, followerID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_followers (user_id, follower_id) VALUES (?, ?)
		 ON CONFLICT DO NOTHING`,
		userID, followerID,
	)
	if err != nil {
		return fmt.Errorf("failed to add follower: %w", err)
	}
	return nil
}

// AddFriend records the friendship in both directions.
func (s *SQLiteStore) AddFriend(ctx context.Context, userID, friendID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, pair := range [][2]int64{{userID, friendID}, {friendID, userID}} {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_friends (user_id, friend_id) VALUES (?, ?)
			 ON CONFLICT DO NOTHING`,
			pair[0], pair[1],
		)
		if err != nil {
			return fmt.Errorf("failed to add friend: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// loadRelations fills Followers and Friends for every user in one query per table.
func loadRelations(ctx context.Context, q queryer, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}

	byID := make(map[int64][]*models.User, len(users))
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		if _, seen := byID[u.ID]; !seen {
			ids = append(ids, u.ID)
		}
		byID[u.ID] = append(byID[u.ID], u)
	}

	relations := []struct {
		query  string
		assign func(u *models.User, other int64)
	}{
		{
			query:  `SELECT user_id, follower_id FROM user_followers WHERE user_id IN (?` + repeatPlaceholder(len(ids)-1) + `) ORDER BY follower_id`,
			assign: func(u *models.User, other int64) { u.Followers = append(u.Followers, other) },
		},
		{
			query:  `SELECT user_id, friend_id FROM user_friends WHERE user_id IN (?` + repeatPlaceholder(len(ids)-1) + `) ORDER BY friend_id`,
			assign: func(u *models.User, other int64) { u.Friends = append(u.Friends, other) },
		},
	}

	for _, rel := range relations {
		rows, err := q.QueryContext(ctx, rel.query, int64Args(ids)...)
		if err != nil {
			return fmt.Errorf("failed to load user relations: %w", err)
		}
		for rows.Next() {
			var userID, other int64
			if err := rows.Scan(&userID, &other); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan user relation: %w", err)
			}
			for _, u := range byID[userID] {
				rel.assign(u, other)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate user relations: %w", err)
		}
	}

	return nil
}
