// Package server assembles the gin router for the tour platform API.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authservice "tour-platform/api/internal/auth/service"
	"tour-platform/api/internal/policy/engine"
	roledomain "tour-platform/api/internal/role/domain"
	roleservice "tour-platform/api/internal/role/service"
	"tour-platform/api/internal/security"
	"tour-platform/api/internal/server/handlers"
	"tour-platform/api/internal/server/middleware"
	tourservice "tour-platform/api/internal/tour/service"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	Auth     *authservice.AuthService
	Roles    *roleservice.RoleService
	Tours    *tourservice.TourService
	Sessions middleware.SessionChecker
	Users    middleware.UserResolver
	Codec    *security.TokenCodec
	Policy   engine.Evaluator
	DB       handlers.Pinger
	Audit    handlers.AuditLister

	CORSOrigins []string
}

// New builds the router: CORS, client-IP capture, health, the auth surface at
// both /auth and /api/v1/auth, and the role-gated v1 resources.
func New(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if len(deps.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = deps.CORSOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
		router.Use(cors.New(corsConfig))
	}
	router.Use(middleware.ClientIP())

	router.GET("/health", handlers.Health(deps.DB, deps.Policy))

	authed := middleware.Authenticated(deps.Sessions, deps.Users, deps.Codec)
	authHandler := handlers.NewAuthHandler(deps.Auth)
	activityHandler := handlers.NewActivityHandler(deps.Audit)
	roleHandler := handlers.NewRoleHandler(deps.Roles)
	tourHandler := handlers.NewTourHandler(deps.Tours)

	// The auth routes answer at the root (legacy paths) and under /api/v1.
	mountAuth := func(g *gin.RouterGroup) {
		g.POST("/register", authHandler.Register)
		g.POST("/login", authHandler.Login)
		g.POST("/logout", authHandler.Logout)
		g.POST("/logout-all", authed, authHandler.LogoutAll)
		g.GET("/user", authed, authHandler.GetUser)
		g.GET("/sessions", authed, authHandler.Sessions)
		g.GET("/activity", authed, activityHandler.List)
		g.PUT("/update-user", authed, authHandler.UpdateUser)
		g.PUT("/update-password", authed, authHandler.UpdatePassword)
	}
	mountAuth(router.Group("/auth"))

	v1 := router.Group("/api/v1")
	mountAuth(v1.Group("/auth"))

	superadminOnly := middleware.RequireRoles(deps.Policy, roledomain.RoleSuperadmin)
	roles := v1.Group("/user-role", authed, superadminOnly)
	{
		roles.POST("/create", roleHandler.Create)
		roles.GET("/get-all", roleHandler.GetAll)
		roles.GET("/get/:id", roleHandler.Get)
		roles.PUT("/update/:id", roleHandler.Update)
		roles.DELETE("/delete/:id", roleHandler.Delete)
	}

	tourWriters := middleware.RequireRoles(deps.Policy,
		roledomain.RoleSuperadmin, roledomain.RoleAdmin, roledomain.RoleManager)
	tours := v1.Group("/tour", authed)
	{
		tours.GET("/get-all", tourHandler.GetAll)
		tours.GET("/get/:id", tourHandler.Get)
		tours.POST("/create", tourWriters, tourHandler.Create)
		tours.PUT("/update/:id", tourWriters, tourHandler.Update)
		tours.DELETE("/delete/:id", tourWriters, tourHandler.Delete)
	}

	return router
}
