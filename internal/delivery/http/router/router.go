// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"nestly/internal/delivery/http/middleware"
	"nestly/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ListingHandler *handler.ListingHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	listingHandler *handler.ListingHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		listingHandler: params.ListingHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
// Reads are public; every mutation and the "my listings" view require a
// verified bearer token.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
	}

	// Public listing routes
	e.GET("/listings", r.listingHandler.List)

	// Protected listing routes. "/listings/my" is registered before
	// "/listings/:id" so the literal segment wins.
	protected := e.Group("/listings")
	protected.Use(r.authMiddleware.Authenticate)
	{
		protected.GET("/my", r.listingHandler.ListMine)
		protected.POST("", r.listingHandler.Create)
		protected.PUT("/:id", r.listingHandler.Update)
		protected.DELETE("/:id", r.listingHandler.Delete)
	}

	e.GET("/listings/:id", r.listingHandler.GetByID)
}
