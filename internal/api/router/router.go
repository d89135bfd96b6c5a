package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/aliskhannn/checkin-scheduler/internal/api/handlers/health"
	"github.com/aliskhannn/checkin-scheduler/internal/api/handlers/reminder"
	"github.com/aliskhannn/checkin-scheduler/internal/middlewares"
)

func New(handler *reminder.Handler, healthHandler *health.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(middlewares.CORSMiddleware())
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	e.GET("/health", healthHandler.Check)

	api := e.Group("/api/v1/reminders")
	{
		api.POST("/generate", handler.Generate)
		api.POST("/generate-all", handler.GenerateAll)
		api.GET("", handler.List)
		api.GET("/next", handler.Next)
		api.GET("/upcoming", handler.Upcoming)
		api.GET("/:id", handler.Get)
		api.GET("/:id/status", handler.GetStatus)
		api.POST("/:id/acknowledge", handler.Acknowledge)
		api.PATCH("/:id", handler.Update)
		api.POST("/:id/complete", handler.Complete)
	}

	return e
}
