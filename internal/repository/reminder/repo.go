package reminder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/wb-go/wbf/dbpg"

	"github.com/aliskhannn/checkin-scheduler/internal/model"
)

var (
	ErrReminderNotFound   = errors.New("reminder not found")
	ErrNoRemindersFound   = errors.New("no reminders found")
	ErrEmptyQuestionnaire = errors.New("reminder has no questions or categories")
)

const reminderColumns = `id, user_id, scheduled_time, sent_time, questions, categories, status, created_at`

// Repository provides methods to interact with reminders table.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new reminder repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReminder(row rowScanner) (model.Reminder, error) {
	var (
		r          model.Reminder
		sent       sql.NullTime
		questions  []byte
		categories []string
		status     string
	)

	err := row.Scan(
		&r.ID, &r.UserID, &r.ScheduledTime, &sent, &questions, pq.Array(&categories), &status, &r.CreatedAt,
	)
	if err != nil {
		return model.Reminder{}, err
	}

	if err := json.Unmarshal(questions, &r.Questions); err != nil {
		return model.Reminder{}, fmt.Errorf("decode questions of reminder %d: %w", r.ID, err)
	}

	r.ScheduledTime = r.ScheduledTime.UTC()
	r.CreatedAt = r.CreatedAt.UTC()
	if sent.Valid {
		t := sent.Time.UTC()
		r.SentTime = &t
	}
	r.Status = model.Status(status)
	r.Categories = toCategories(categories)

	return r, nil
}

// toCategories drops tags outside the catalog.
func toCategories(raw []string) []model.Category {
	out := make([]model.Category, 0, len(raw))
	for _, s := range raw {
		if c, err := model.ParseCategory(s); err == nil {
			out = append(out, c)
		}
	}
	return out
}

func fromCategories(cats []model.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

func scanReminders(rows *sql.Rows) ([]model.Reminder, error) {
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reminders, nil
}

// CreateReminder inserts a SCHEDULED reminder. The unique (user_id,
// scheduled_time) constraint decides duplicates: when a reminder already
// exists at that instant nothing is written and created is false.
func (r *Repository) CreateReminder(ctx context.Context, reminder model.Reminder) (model.Reminder, bool, error) {
	if len(reminder.Questions) == 0 || len(reminder.Categories) == 0 {
		return model.Reminder{}, false, ErrEmptyQuestionnaire
	}

	questions, err := json.Marshal(reminder.Questions)
	if err != nil {
		return model.Reminder{}, false, fmt.Errorf("encode questions: %w", err)
	}

	query := `
		INSERT INTO reminders (
		    user_id, scheduled_time, questions, categories, status
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, scheduled_time) DO NOTHING
		RETURNING id, created_at;
    `

	reminder.ScheduledTime = reminder.ScheduledTime.UTC()
	reminder.Status = model.StatusScheduled

	err = r.db.Master.QueryRowContext(
		ctx, query,
		reminder.UserID, reminder.ScheduledTime, questions, pq.Array(fromCategories(reminder.Categories)), string(reminder.Status),
	).Scan(&reminder.ID, &reminder.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reminder{}, false, nil
		}

		return model.Reminder{}, false, fmt.Errorf("failed to create reminder: %w", err)
	}

	reminder.CreatedAt = reminder.CreatedAt.UTC()

	return reminder, true, nil
}

// ExistsAt reports whether the user already has a reminder at the instant.
func (r *Repository) ExistsAt(ctx context.Context, userID int64, scheduledTime time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
		    SELECT 1 FROM reminders
		    WHERE user_id = $1 AND scheduled_time = $2
		);
    `

	var exists bool
	if err := r.db.Master.QueryRowContext(ctx, query, userID, scheduledTime.UTC()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check reminder existence: %w", err)
	}

	return exists, nil
}

// ListAsked returns the user's most recent reminders, newest scheduled_time
// first, reduced to what last-asked bookkeeping needs.
func (r *Repository) ListAsked(ctx context.Context, userID int64, limit int) ([]model.AskedEntry, error) {
	query := `
		SELECT scheduled_time, categories
		FROM reminders
		WHERE user_id = $1
		ORDER BY scheduled_time DESC
		LIMIT $2;
    `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list asked categories: %w", err)
	}
	defer rows.Close()

	var entries []model.AskedEntry
	for rows.Next() {
		var (
			e    model.AskedEntry
			cats []string
		)
		if err := rows.Scan(&e.ScheduledTime, pq.Array(&cats)); err != nil {
			return nil, err
		}
		e.ScheduledTime = e.ScheduledTime.UTC()
		e.Categories = toCategories(cats)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// GetByID retrieves a reminder by its ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (model.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1;`

	reminder, err := scanReminder(r.db.Master.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reminder{}, ErrReminderNotFound
		}

		return model.Reminder{}, fmt.Errorf("failed to get reminder: %w", err)
	}

	return reminder, nil
}

// GetStatusByID retrieves the status of a reminder by its ID.
func (r *Repository) GetStatusByID(ctx context.Context, id int64) (model.Status, error) {
	query := `
		SELECT status
		FROM reminders
		WHERE id = $1;
    `

	var status string
	err := r.db.Master.QueryRowContext(ctx, query, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrReminderNotFound
		}

		return "", fmt.Errorf("failed to get reminder status: %w", err)
	}

	return model.Status(status), nil
}

// List retrieves reminders matching the filter ordered by scheduled_time descending.
func (r *Repository) List(ctx context.Context, filter model.ReminderFilter) ([]model.Reminder, error) {
	var userID, status interface{}
	if filter.UserID != nil {
		userID = *filter.UserID
	}
	if filter.Status != nil {
		status = string(*filter.Status)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + reminderColumns + `
		FROM reminders
		WHERE ($1::BIGINT IS NULL OR user_id = $1)
		  AND ($2::TEXT IS NULL OR status = $2)
		ORDER BY scheduled_time DESC
		OFFSET $3 LIMIT $4;
    `

	rows, err := r.db.QueryContext(ctx, query, userID, status, filter.Offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}

	reminders, err := scanReminders(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan reminders: %w", err)
	}

	if len(reminders) == 0 {
		return nil, ErrNoRemindersFound
	}

	return reminders, nil
}

// Next returns the oldest SCHEDULED reminder of the user that is already due.
func (r *Repository) Next(ctx context.Context, userID int64, now time.Time) (model.Reminder, error) {
	query := `SELECT ` + reminderColumns + `
		FROM reminders
		WHERE user_id = $1 AND status = $2 AND scheduled_time <= $3
		ORDER BY scheduled_time ASC
		LIMIT 1;
    `

	reminder, err := scanReminder(r.db.Master.QueryRowContext(ctx, query, userID, string(model.StatusScheduled), now.UTC()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reminder{}, ErrReminderNotFound
		}

		return model.Reminder{}, fmt.Errorf("failed to get next reminder: %w", err)
	}

	return reminder, nil
}

// Upcoming returns SCHEDULED reminders of the user that are still in the future.
func (r *Repository) Upcoming(ctx context.Context, userID int64, now time.Time, limit int) ([]model.Reminder, error) {
	query := `SELECT ` + reminderColumns + `
		FROM reminders
		WHERE user_id = $1 AND status = $2 AND scheduled_time > $3
		ORDER BY scheduled_time ASC
		LIMIT $4;
    `

	rows, err := r.db.QueryContext(ctx, query, userID, string(model.StatusScheduled), now.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming reminders: %w", err)
	}

	reminders, err := scanReminders(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan reminders: %w", err)
	}

	return reminders, nil
}

// UpdateStatus moves a reminder to status, setting sent_time when given.
// The WHERE clause only matches states from which status is reachable, so
// concurrent writers can never move a reminder backwards. Writing the
// current status again is a no-op.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status model.Status, sentTime *time.Time) (model.Reminder, error) {
	sources := model.AllowedSources(status)
	allowed := make([]string, len(sources))
	for i, s := range sources {
		allowed[i] = string(s)
	}

	var sent interface{}
	if sentTime != nil {
		sent = sentTime.UTC()
	}

	query := `
		UPDATE reminders
		SET status = $2, sent_time = COALESCE($3, sent_time)
		WHERE id = $1 AND status = ANY($4)
		RETURNING ` + reminderColumns + `;
    `

	reminder, err := scanReminder(r.db.Master.QueryRowContext(ctx, query, id, string(status), sent, pq.Array(allowed)))
	if err == nil {
		return reminder, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Reminder{}, fmt.Errorf("failed to update reminder status: %w", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Reminder{}, err
	}

	if current.Status == status {
		return current, nil
	}

	return model.Reminder{}, fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, current.Status, status)
}

// ClaimDue atomically moves up to limit due SCHEDULED reminders to SENT and
// returns them. Rows locked by a concurrent sweep are skipped.
func (r *Repository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.Reminder, error) {
	query := `
		UPDATE reminders
		SET status = $1, sent_time = $2
		WHERE id IN (
		    SELECT id FROM reminders
		    WHERE status = $3 AND scheduled_time <= $2
		    ORDER BY scheduled_time ASC
		    LIMIT $4
		    FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + reminderColumns + `;
    `

	rows, err := r.db.QueryContext(
		ctx, query, string(model.StatusSent), now.UTC(), string(model.StatusScheduled), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim due reminders: %w", err)
	}

	reminders, err := scanReminders(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan claimed reminders: %w", err)
	}

	return reminders, nil
}

// SetSentTime overwrites sent_time without touching the status.
func (r *Repository) SetSentTime(ctx context.Context, id int64, sentTime time.Time) (model.Reminder, error) {
	query := `
		UPDATE reminders
		SET sent_time = $2
		WHERE id = $1
		RETURNING ` + reminderColumns + `;
    `

	reminder, err := scanReminder(r.db.Master.QueryRowContext(ctx, query, id, sentTime.UTC()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reminder{}, ErrReminderNotFound
		}

		return model.Reminder{}, fmt.Errorf("failed to set sent time: %w", err)
	}

	return reminder, nil
}
