package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kidlab/study-booking/internal/config"
	"github.com/kidlab/study-booking/internal/handler"
	"github.com/kidlab/study-booking/internal/middleware"
)

// Handlers collects everything the router needs to wire up the API.
type Handlers struct {
	Public    *handler.PublicHandler
	Booking   *handler.BookingHandler
	AdminAuth *handler.AdminAuthHandler
	Admin     *handler.AdminHandler
}

// RegisterRoutes registers the full route table.  Public browse
// endpoints sit behind the Redis response cache, booking creation behind
// the token-bucket rate limiter, and everything under /v1/admin (except
// login) behind JWT auth with the ADMIN role.
func RegisterRoutes(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e.GET("/v1/slots", h.Public.ListActiveSlots, cache)
	e.GET("/v1/slots/:id", h.Public.GetSlot, cache)

	e.POST("/v1/bookings", h.Booking.CreateBooking, rateLimit)

	e.POST("/v1/admin/login", h.AdminAuth.Login, rateLimit)

	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole("ADMIN"))

	admin.GET("/slots", h.Admin.ListSlots)
	admin.POST("/slots", h.Admin.CreateSlot)
	admin.PATCH("/slots/:id", h.Admin.UpdateSlot)
	admin.DELETE("/slots/:id", h.Admin.DeleteSlot)
	admin.GET("/slots/:id/bookings", h.Admin.ListSlotBookings)
	admin.DELETE("/slots/:id/bookings", h.Admin.ClearSlotBookings)
	admin.GET("/bookings", h.Admin.ListBookings)
	admin.DELETE("/bookings/:id", h.Admin.DeleteBooking)
}
