// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-freezer-inventory/internal/handler"
	"github.com/iliyamo/lab-freezer-inventory/internal/middleware"
	"github.com/iliyamo/lab-freezer-inventory/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Unauthenticated token
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// InventoryHandlers bundles the handlers RegisterInventory wires up, so the
// call site in main stays readable.
type InventoryHandlers struct {
	Freezers *handler.FreezerHandler
	Racks    *handler.RackHandler
	Boxes    *handler.BoxHandler
	Samples  *handler.SampleHandler
	History  *handler.HistoryHandler
	Search   *handler.SearchHandler
	Stats    *handler.StatsHandler
}

// RegisterInventory registers the storage hierarchy, sample, history, search
// and stats routes.  All of them require a valid token; reads are open to
// readonly accounts, mutations require at least a regular user, and
// hierarchy deletions (which cascade) are reserved for admins.
func RegisterInventory(e *echo.Echo, h InventoryHandlers, jwtSecret string) {
	v1 := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	read := v1.Group("", middleware.RequireMinRole(model.RoleReadonly))
	write := v1.Group("", middleware.RequireMinRole(model.RoleUser))
	destroy := v1.Group("", middleware.RequireMinRole(model.RoleAdmin))

	// Storage hierarchy.
	read.GET("/freezers", h.Freezers.List)
	write.POST("/freezers", h.Freezers.Create)
	destroy.DELETE("/freezers/:freezer", h.Freezers.Delete)

	read.GET("/freezers/:freezer/racks", h.Racks.List)
	write.POST("/freezers/:freezer/racks", h.Racks.Create)
	destroy.DELETE("/freezers/:freezer/racks/:rack", h.Racks.Delete)

	read.GET("/freezers/:freezer/racks/:rack/boxes", h.Boxes.List)
	read.GET("/freezers/:freezer/racks/:rack/boxes/:box/layout", h.Boxes.Layout)
	write.POST("/freezers/:freezer/racks/:rack/boxes", h.Boxes.Create)
	destroy.DELETE("/freezers/:freezer/racks/:rack/boxes/:box", h.Boxes.Delete)

	// Samples within a box.
	read.GET("/freezers/:freezer/racks/:rack/boxes/:box/samples", h.Samples.ListByBox)
	write.POST("/freezers/:freezer/racks/:rack/boxes/:box/samples", h.Samples.Add)
	write.POST("/freezers/:freezer/racks/:rack/boxes/:box/samples/bulk", h.Samples.AddBulk)

	// Samples by id.
	read.GET("/samples/:id", h.Samples.Get)
	write.PUT("/samples/:id", h.Samples.Update)
	write.POST("/samples/:id/move", h.Samples.Move)
	write.DELETE("/samples/:id", h.Samples.Delete)

	// Audit trail.
	read.GET("/samples/:id/history", h.History.BySample)
	read.GET("/history", h.History.List)

	// Search and stats.
	read.GET("/search/samples", h.Search.Search)
	read.GET("/stats/utilization", h.Stats.Utilization)
}

// RegisterAdmin registers the user administration surface behind the admin
// role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminUserHandler, jwtSecret string) {
	g := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret), middleware.RequireMinRole(model.RoleAdmin))
	g.GET("/users", a.List)
	g.PATCH("/users/:id/role", a.UpdateRole)
	g.PATCH("/users/:id/password", a.ResetPassword)
	g.PATCH("/users/:id/active", a.SetActive)
	g.DELETE("/users/:id", a.Delete)
}
