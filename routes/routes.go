package routes

import (
	"github.com/AndreyPae/storefront/auth"
	"github.com/AndreyPae/storefront/events"
	"github.com/AndreyPae/storefront/middleware"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
)

// Deps carries what the handlers are built from.
type Deps struct {
	Store        store.Store
	Sessions     *auth.Sessions
	Publisher    events.Publisher
	Hub          *events.Hub
	SecureCookie bool
}

// SetupRoutes is the single entry point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	if d.Publisher == nil {
		d.Publisher = events.Nop{}
	}

	// Public auth routes
	SetupAuthRoutes(r, d)

	protected := r.Group("/")
	protected.Use(middleware.RequireSession(d.Sessions))

	SetupUserRoutes(protected, d)
	SetupOrderRoutes(protected, d)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireSuperuser())
	SetupAdminRoutes(admin, d)
}
