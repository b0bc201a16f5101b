package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-core/controllers"
	"hotel-core/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the HTTP surface. Guest-facing reads and the
// reservation path are open; inventory mutation and booking status
// control sit behind the staff API key.
func SetupRouter(
	rc *controllers.RoomController,
	rtc *controllers.RoomTypeController,
	ratec *controllers.RateController,
	bc *controllers.BookingController,
	staffAPIKey string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key", "X-Staff-Name"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/rooms/available", rc.ListAvailable)
		api.GET("/room-types", rtc.List)
		api.GET("/room-types/:id", rtc.Get)
		api.GET("/room-types/:id/rates", ratec.ListRates)

		api.POST("/quotes", bc.Quote)

		bookings := api.Group("/bookings")
		{
			bookings.POST("", bc.Reserve)
			bookings.GET("/:id", bc.Get)
			bookings.POST("/:id/cancel", bc.Cancel)
			bookings.POST("/:id/payments", bc.RecordPayment)
			bookings.GET("/:id/payments", bc.ListPayments)
		}

		staff := api.Group("", middleware.StaffOnly(staffAPIKey))
		{
			staff.GET("/rooms", rc.ListRooms)
			staff.GET("/rooms/:id", rc.GetRoom)
			staff.POST("/rooms", rc.CreateRoom)
			staff.PATCH("/rooms/:id/status", rc.SetRoomStatus)

			staff.POST("/room-types", rtc.Create)
			staff.PUT("/room-types/:id", rtc.Update)

			staff.POST("/room-rates", ratec.CreateRate)
			staff.POST("/promo-codes", ratec.CreatePromoCode)
			staff.GET("/promo-codes/:code", ratec.GetPromoCode)

			staff.PATCH("/bookings/:id/status", bc.SetStatus)
			staff.POST("/payments/:id/refund", bc.RefundPayment)
		}
	}

	return r
}
