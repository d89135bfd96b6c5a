package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/checkin-scheduler/internal/model"
)

var ErrUserNotFound = errors.New("user not found")

// Repository reads user profiles.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new user repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// GetUser loads a profile and resolves its timezone. An unknown zone name
// falls back to UTC and is logged.
func (r *Repository) GetUser(ctx context.Context, id int64) (model.User, error) {
	query := `
		SELECT id, name, timezone, wake_time::TEXT, sleep_time::TEXT, screens_off_time::TEXT
		FROM users
		WHERE id = $1;
    `

	var (
		u                       model.User
		name, tz                sql.NullString
		wake, sleep, screensOff sql.NullString
	)

	err := r.db.Master.QueryRowContext(ctx, query, id).Scan(&u.ID, &name, &tz, &wake, &sleep, &screensOff)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}

		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	u.Name = name.String
	u.Timezone = tz.String

	u.Location, err = model.LoadLocation(u.Timezone)
	if err != nil {
		zlog.Logger.Warn().Err(err).Int64("user_id", id).Msg("unknown timezone, using UTC")
	}

	if u.WakeTime, err = parseClock(wake); err != nil {
		return model.User{}, fmt.Errorf("user %d wake_time: %w", id, err)
	}
	if u.SleepTime, err = parseClock(sleep); err != nil {
		return model.User{}, fmt.Errorf("user %d sleep_time: %w", id, err)
	}
	if u.ScreensOffTime, err = parseClock(screensOff); err != nil {
		return model.User{}, fmt.Errorf("user %d screens_off_time: %w", id, err)
	}

	return u, nil
}

func parseClock(s sql.NullString) (*model.ClockTime, error) {
	if !s.Valid {
		return nil, nil
	}

	c, err := model.ParseClockTime(s.String)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// ListUserIDs returns the id of every user in ascending order.
func (r *Repository) ListUserIDs(ctx context.Context) ([]int64, error) {
	query := `
		SELECT id
		FROM users
		ORDER BY id;
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
