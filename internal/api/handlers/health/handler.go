package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/checkin-scheduler/internal/api/respond"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db pinger
}

func NewHandler(db pinger) *Handler {
	return &Handler{db: db}
}

// Check reports whether the database answers within two seconds.
func (h *Handler) Check(c *ginext.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		zlog.Logger.Error().Err(err).Msg("health check failed")
		respond.Fail(c.Writer, http.StatusServiceUnavailable, fmt.Errorf("database unavailable"))
		return
	}

	respond.OK(c.Writer, map[string]string{"status": "ok"})
}
