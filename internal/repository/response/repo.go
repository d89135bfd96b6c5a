package response

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wb-go/wbf/dbpg"

	"github.com/aliskhannn/checkin-scheduler/internal/model"
)

// Repository reads the response history. Soft-deleted rows are never returned.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new response repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// ListResponses returns the user's responses, newest first. Nil query fields
// do not constrain the result; a non-positive limit returns every row.
func (r *Repository) ListResponses(ctx context.Context, q model.ResponseQuery) ([]model.Response, error) {
	var category, since, limit interface{}
	if q.Category != nil {
		category = string(*q.Category)
	}
	if q.Since != nil {
		since = q.Since.UTC()
	}
	if q.Limit > 0 {
		limit = q.Limit
	}

	query := `
		SELECT id, reminder_id, "timestamp", category, question_text, response_text
		FROM responses
		WHERE user_id = $1
		  AND deleted_at IS NULL
		  AND ($2::TEXT IS NULL OR category = $2)
		  AND ($3::TIMESTAMPTZ IS NULL OR "timestamp" >= $3)
		ORDER BY "timestamp" DESC
		LIMIT $4;
    `

	rows, err := r.db.QueryContext(ctx, query, q.UserID, category, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	defer rows.Close()

	var responses []model.Response
	for rows.Next() {
		var (
			resp       model.Response
			reminderID sql.NullInt64
			cat        sql.NullString
			ts         time.Time
		)

		if err := rows.Scan(&resp.ID, &reminderID, &ts, &cat, &resp.QuestionText, &resp.ResponseText); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}

		resp.Timestamp = ts.UTC()
		if reminderID.Valid {
			id := reminderID.Int64
			resp.ReminderID = &id
		}
		if cat.Valid {
			c := cat.String
			resp.Category = &c
		}

		responses = append(responses, resp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}

// CountByReminder returns how many live responses fulfil the reminder.
func (r *Repository) CountByReminder(ctx context.Context, reminderID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM responses
		WHERE reminder_id = $1 AND deleted_at IS NULL;
    `

	var count int
	if err := r.db.Master.QueryRowContext(ctx, query, reminderID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}

	return count, nil
}

// ListByReminder returns the live responses recorded against a reminder,
// oldest first.
func (r *Repository) ListByReminder(ctx context.Context, reminderID int64) ([]model.Response, error) {
	query := `
		SELECT id, "timestamp", category, question_text, response_text
		FROM responses
		WHERE reminder_id = $1 AND deleted_at IS NULL
		ORDER BY "timestamp" ASC;
    `

	rows, err := r.db.QueryContext(ctx, query, reminderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminder responses: %w", err)
	}
	defer rows.Close()

	var responses []model.Response
	for rows.Next() {
		var (
			resp model.Response
			cat  sql.NullString
		)

		if err := rows.Scan(&resp.ID, &resp.Timestamp, &cat, &resp.QuestionText, &resp.ResponseText); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}

		id := reminderID
		resp.ReminderID = &id
		resp.Timestamp = resp.Timestamp.UTC()
		if cat.Valid {
			c := cat.String
			resp.Category = &c
		}

		responses = append(responses, resp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}
