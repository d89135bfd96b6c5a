package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/checkin-scheduler/internal/api/respond"
	"github.com/aliskhannn/checkin-scheduler/internal/config"
	"github.com/aliskhannn/checkin-scheduler/internal/model"
	reminderrepo "github.com/aliskhannn/checkin-scheduler/internal/repository/reminder"
	userrepo "github.com/aliskhannn/checkin-scheduler/internal/repository/user"
	remindersvc "github.com/aliskhannn/checkin-scheduler/internal/service/reminder"
	"github.com/aliskhannn/checkin-scheduler/internal/service/scheduling"
)

const defaultUpcomingLimit = 10

// reminderService defines the reminder lifecycle operations the Handler depends on.
//
//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/reminder/mock.go -package=mocks
type reminderService interface {
	GetByID(ctx context.Context, id int64) (remindersvc.Detail, error)
	List(ctx context.Context, filter model.ReminderFilter) ([]model.Reminder, error)
	Next(ctx context.Context, userID int64, now time.Time) (model.Reminder, error)
	Upcoming(ctx context.Context, userID int64, now time.Time, limit int) ([]model.Reminder, error)
	GetStatus(ctx context.Context, id int64) (model.Status, error)
	Acknowledge(ctx context.Context, strategy retry.Strategy, id int64) (model.Reminder, error)
	Update(ctx context.Context, strategy retry.Strategy, id int64, status *model.Status, sentTime *time.Time) (model.Reminder, error)
	Complete(ctx context.Context, strategy retry.Strategy, id int64) (model.Reminder, error)
}

// scheduler runs scheduling cycles on demand.
type scheduler interface {
	ScheduleUser(ctx context.Context, userID int64, now time.Time) (scheduling.Result, error)
	ScheduleAll(ctx context.Context, now time.Time) (scheduling.BatchResult, error)
}

// Handler handles HTTP requests related to reminders.
//
// It exposes on-demand scheduling, reminder reads for the web app, and the
// acknowledge/update/complete lifecycle transitions.
type Handler struct {
	service   reminderService
	scheduler scheduler
	validator *validator.Validate
	cfg       *config.Config
	now       func() time.Time
}

// NewHandler creates a new Handler instance.
//
// Parameters:
//   - s: reminder lifecycle service
//   - sch: scheduler used by the generate endpoints
//   - v: validator instance for request validation
//   - cfg: configuration instance
func NewHandler(
	s reminderService,
	sch scheduler,
	v *validator.Validate,
	cfg *config.Config,
) *Handler {
	return &Handler{service: s, scheduler: sch, validator: v, cfg: cfg, now: time.Now}
}

// GenerateResponse is returned by the generate endpoint.
type GenerateResponse struct {
	Success           bool             `json:"success"`
	Scheduled         int              `json:"scheduled"`
	Skipped           int              `json:"skipped"`
	TotalQuestions    int              `json:"total_questions"`
	CategoriesCovered []model.Category `json:"categories_covered"`
	Reasoning         string           `json:"reasoning"`
	Reminders         []model.Reminder `json:"reminders"`
}

// ListQuery holds the filters accepted by List.
type ListQuery struct {
	UserID *int64  `form:"user_id" validate:"omitempty,gt=0"`
	Status *string `form:"status" validate:"omitempty,oneof=scheduled sent acknowledged completed missed"`
	Offset int     `form:"offset" validate:"gte=0"`
	Limit  int     `form:"limit" validate:"gte=0,lte=500"`
}

// UpcomingQuery holds the parameters accepted by Upcoming.
type UpcomingQuery struct {
	UserID int64 `form:"user_id" validate:"required,gt=0"`
	Limit  int   `form:"limit" validate:"gte=0,lte=100"`
}

// UpdateRequest is the PATCH body. At least one field must be set.
type UpdateRequest struct {
	Status   *string    `json:"status" validate:"omitempty,oneof=scheduled sent acknowledged completed missed"`
	SentTime *time.Time `json:"sent_time"`
}

// Generate handles HTTP POST requests that run one scheduling cycle for a user.
//
// It expects a user_id query parameter and returns how many reminders were
// scheduled together with the selection reasoning.
func (h *Handler) Generate(c *ginext.Context) {
	userID, err := parsePositiveInt(c.Query("user_id"))
	if err != nil {
		zlog.Logger.Warn().Err(err).Msg("invalid user_id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid user_id"))
		return
	}

	res, err := h.scheduler.ScheduleUser(c.Request.Context(), userID, h.now())
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			zlog.Logger.Warn().Int64("user_id", userID).Msg("user not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("user not found"))
			return
		}

		zlog.Logger.Error().Err(err).Int64("user_id", userID).Msg("failed to schedule reminders")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	reminders := res.Scheduled
	if reminders == nil {
		reminders = []model.Reminder{}
	}

	respond.OK(c.Writer, GenerateResponse{
		Success:           true,
		Scheduled:         len(res.Scheduled),
		Skipped:           res.Skipped,
		TotalQuestions:    res.TotalQuestions,
		CategoriesCovered: res.Categories,
		Reasoning:         res.Reasoning,
		Reminders:         reminders,
	})
}

// GenerateAll handles HTTP POST requests that run one scheduling cycle for
// every user. Failures for individual users are reported, not fatal.
func (h *Handler) GenerateAll(c *ginext.Context) {
	res, err := h.scheduler.ScheduleAll(c.Request.Context(), h.now())
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to schedule reminders for all users")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, res)
}

// List handles HTTP GET requests to list reminders, newest first.
//
// Optional query parameters: user_id, status, offset, limit.
func (h *Handler) List(c *ginext.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to bind query")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid query"))
		return
	}

	if err := h.validator.Struct(q); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate query")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	filter := model.ReminderFilter{UserID: q.UserID, Offset: q.Offset, Limit: q.Limit}
	if q.Status != nil {
		status := model.Status(*q.Status)
		filter.Status = &status
	}

	reminders, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, reminderrepo.ErrNoRemindersFound) {
			respond.OK(c.Writer, []model.Reminder{})
			return
		}

		zlog.Logger.Error().Err(err).Msg("failed to list reminders")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, reminders)
}

// Next handles HTTP GET requests for the oldest due reminder of a user that
// has not been sent yet.
func (h *Handler) Next(c *ginext.Context) {
	userID, err := parsePositiveInt(c.Query("user_id"))
	if err != nil {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid user_id"))
		return
	}

	r, err := h.service.Next(c.Request.Context(), userID, h.now())
	if err != nil {
		if errors.Is(err, reminderrepo.ErrReminderNotFound) {
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("no reminder due"))
			return
		}

		zlog.Logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get next reminder")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, r)
}

// Upcoming handles HTTP GET requests for a user's future reminders, soonest first.
func (h *Handler) Upcoming(c *ginext.Context) {
	var q UpcomingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid query"))
		return
	}

	if err := h.validator.Struct(q); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate query")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	if q.Limit == 0 {
		q.Limit = defaultUpcomingLimit
	}

	reminders, err := h.service.Upcoming(c.Request.Context(), q.UserID, h.now(), q.Limit)
	if err != nil {
		zlog.Logger.Error().Err(err).Int64("user_id", q.UserID).Msg("failed to list upcoming reminders")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	if reminders == nil {
		reminders = []model.Reminder{}
	}

	respond.OK(c.Writer, reminders)
}

// Get handles HTTP GET requests for a single reminder with its responses.
func (h *Handler) Get(c *ginext.Context) {
	id, ok := h.reminderID(c)
	if !ok {
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, id, err, "failed to get reminder")
		return
	}

	respond.OK(c.Writer, d)
}

// GetStatus handles HTTP GET requests for the current status of a reminder.
func (h *Handler) GetStatus(c *ginext.Context) {
	id, ok := h.reminderID(c)
	if !ok {
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), id)
	if err != nil {
		h.fail(c, id, err, "failed to get reminder status")
		return
	}

	respond.OK(c.Writer, map[string]interface{}{"id": id, "status": status})
}

// Acknowledge handles HTTP POST requests recording that the user opened a reminder.
func (h *Handler) Acknowledge(c *ginext.Context) {
	id, ok := h.reminderID(c)
	if !ok {
		return
	}

	r, err := h.service.Acknowledge(c.Request.Context(), h.cfg.Retry, id)
	if err != nil {
		h.fail(c, id, err, "failed to acknowledge reminder")
		return
	}

	respond.OK(c.Writer, r)
}

// Update handles HTTP PATCH requests changing a reminder's status and/or sent_time.
func (h *Handler) Update(c *ginext.Context) {
	id, ok := h.reminderID(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	var status *model.Status
	if req.Status != nil {
		s := model.Status(*req.Status)
		status = &s
	}

	r, err := h.service.Update(c.Request.Context(), h.cfg.Retry, id, status, req.SentTime)
	if err != nil {
		h.fail(c, id, err, "failed to update reminder")
		return
	}

	respond.OK(c.Writer, r)
}

// Complete handles HTTP POST requests closing a reminder that has responses.
func (h *Handler) Complete(c *ginext.Context) {
	id, ok := h.reminderID(c)
	if !ok {
		return
	}

	r, err := h.service.Complete(c.Request.Context(), h.cfg.Retry, id)
	if err != nil {
		h.fail(c, id, err, "failed to complete reminder")
		return
	}

	respond.OK(c.Writer, r)
}

// reminderID parses the :id path parameter and writes a 400 on failure.
func (h *Handler) reminderID(c *ginext.Context) (int64, bool) {
	idStr := c.Param("id")

	id, err := parsePositiveInt(idStr)
	if err != nil {
		zlog.Logger.Warn().Err(err).Str("id", idStr).Msg("failed to parse id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return 0, false
	}

	return id, true
}

// fail maps service errors on a single reminder to HTTP status codes.
func (h *Handler) fail(c *ginext.Context, id int64, err error, msg string) {
	switch {
	case errors.Is(err, reminderrepo.ErrReminderNotFound):
		zlog.Logger.Warn().Int64("id", id).Err(err).Msg("reminder not found")
		respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("reminder not found"))
	case errors.Is(err, model.ErrInvalidTransition):
		respond.Fail(c.Writer, http.StatusConflict, fmt.Errorf("invalid status transition"))
	case errors.Is(err, remindersvc.ErrNoResponses):
		respond.Fail(c.Writer, http.StatusConflict, fmt.Errorf("reminder has no responses"))
	case errors.Is(err, remindersvc.ErrEmptyUpdate):
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("nothing to update"))
	default:
		zlog.Logger.Error().Err(err).Int64("id", id).Msg(msg)
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
	}
}

func parsePositiveInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive: %d", n)
	}

	return n, nil
}
