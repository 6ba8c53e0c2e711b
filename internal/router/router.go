// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/chakai/reservation-api/internal/handler"
	"github.com/chakai/reservation-api/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication and no
// rate limiting: currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the admin session endpoints. Login and the
// refresh exchanges live under /v1/auth and need no JWT; logout and
// /v1/me run behind the JWT middleware so all-session revocation knows
// who is calling.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout with a refresh_token in the body needs no JWT.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/logout", a.Logout)
}

// RegisterPublic registers the guest-facing catalog and booking routes.
// The catalog GETs sit behind the redis response cache; the booking
// writes do not, they must always reach the ledger.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/events", p.ListEvents, cache)
	e.GET("/v1/events/:id", p.GetEvent, cache)

	e.POST("/v1/events/:id/reservations", p.CreateReservation)
	e.POST("/v1/reservations/lookup", p.LookupReservation)
	e.DELETE("/v1/reservations/:id", p.CancelReservation)
}

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin. All
// routes require a valid JWT with the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Events ----
	g.GET("/events", a.ListEvents)
	g.POST("/events", a.CreateEvent)
	g.PUT("/events/:id", a.UpdateEvent)
	g.PATCH("/events/:id", a.UpdateEvent)
	g.DELETE("/events/:id", a.DeleteEvent)
	g.POST("/events/:id/image", a.UploadEventImage)

	// ---- Time slots ----
	g.POST("/events/:id/slots", a.CreateSlot)
	g.PUT("/slots/:id", a.UpdateSlot)
	g.PATCH("/slots/:id", a.UpdateSlot)
	g.DELETE("/slots/:id", a.DeleteSlot)

	// ---- Reservations ----
	g.GET("/events/:id/reservations", a.ListEventReservations)
	g.POST("/events/:id/reservations", a.CreateReservation)
	g.PUT("/reservations/:id", a.UpdateReservation)
	g.PATCH("/reservations/:id", a.UpdateReservation)
	g.DELETE("/reservations/:id", a.DeleteReservation)

	// ---- Guests and mail ----
	g.GET("/guests", a.ListGuests)
	g.POST("/mail", a.SendBulkMail)
}
