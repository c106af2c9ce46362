package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/racecoach/internal/db"
	"github.com/alexanderramin/racecoach/internal/domain"
)

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

func NewSQLiteUserRepo(conn db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: conn}
}

const userColumns = `athlete_id, email, preferences, access_token, device_token, created_at`

func (r *SQLiteUserRepo) Get(ctx context.Context, athleteID int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE athlete_id = ?`, athleteID)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", athleteID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user %d: %w", athleteID, err)
	}
	return u, nil
}

func (r *SQLiteUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY athlete_id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *SQLiteUserRepo) Upsert(ctx context.Context, u *domain.User) error {
	prefs, err := marshalJSON(u.Preferences)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(athlete_id) DO UPDATE SET
			email = excluded.email,
			preferences = excluded.preferences,
			access_token = excluded.access_token,
			device_token = excluded.device_token`,
		u.AthleteID, u.Email, prefs, u.AccessToken, u.DeviceToken, formatTimestamp(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting user %d: %w", u.AthleteID, err)
	}
	return nil
}

func (r *SQLiteUserRepo) UpdatePreferences(ctx context.Context, athleteID int64, prefs domain.Preferences) error {
	encoded, err := marshalJSON(prefs)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE users SET preferences = ? WHERE athlete_id = ?`, encoded, athleteID)
	if err != nil {
		return fmt.Errorf("updating preferences for user %d: %w", athleteID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", athleteID, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		prefs     string
		createdAt string
	)
	if err := s.Scan(&u.AthleteID, &u.Email, &prefs, &u.AccessToken, &u.DeviceToken, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(prefs), &u.Preferences); err != nil {
		return nil, fmt.Errorf("decoding preferences: %w", err)
	}
	t, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}
