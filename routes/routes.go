package routes

import (
	"time"

	"bookpilot/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAppointmentRoutes sets up the endpoints for the booking pipeline.
func RegisterAppointmentRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/appointments")
	{
		api.POST("/run", bh.Run)
		api.POST("/propose", bh.Propose)
		api.POST("/confirm", bh.Confirm)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.Health)
}

// RegisterRoutes wires CORS and all endpoint groups.
func RegisterRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAppointmentRoutes(r, bh)
}
