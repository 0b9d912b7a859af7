// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"plowline/internal/delivery/http/middleware"
	"plowline/internal/delivery/http/router/handler"
	"plowline/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler         *handler.UserHandler
	CartHandler         *handler.CartHandler
	AddressHandler      *handler.AddressHandler
	RequestHandler      *handler.RequestHandler
	NotificationHandler *handler.NotificationHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler         *handler.UserHandler
	cartHandler         *handler.CartHandler
	addressHandler      *handler.AddressHandler
	requestHandler      *handler.RequestHandler
	notificationHandler *handler.NotificationHandler
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:         params.UserHandler,
		cartHandler:         params.CartHandler,
		addressHandler:      params.AddressHandler,
		requestHandler:      params.RequestHandler,
		notificationHandler: params.NotificationHandler,
		authMiddleware:      params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register/customer", r.userHandler.RegisterCustomer)
		authGroup.POST("/register/provider", r.userHandler.RegisterProvider)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
		authGroup.POST("/logout", r.userHandler.Logout)
	}

	// User routes that require authentication
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/profile", r.userHandler.GetProfile)
	}

	// Address book routes, customer only
	addressGroup := e.Group("/addresses")
	addressGroup.Use(r.authMiddleware.Authenticate)
	addressGroup.Use(r.authMiddleware.RequireRole(string(entity.RoleCustomer)))
	{
		addressGroup.POST("", r.addressHandler.CreateAddress)
		addressGroup.GET("", r.addressHandler.ListAddresses)
		addressGroup.PATCH("/:addressId", r.addressHandler.UpdateAddress)
		addressGroup.DELETE("/:addressId", r.addressHandler.DeleteAddress)
	}

	// Cart routes, customer only
	cartGroup := e.Group("/cart")
	cartGroup.Use(r.authMiddleware.Authenticate)
	cartGroup.Use(r.authMiddleware.RequireRole(string(entity.RoleCustomer)))
	{
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.GET("", r.cartHandler.GetCart)
		cartGroup.PATCH("/items/:itemId", r.cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:itemId", r.cartHandler.RemoveItem)
		cartGroup.DELETE("", r.cartHandler.ClearCart)
	}

	// Request routes shared by both roles
	requestGroup := e.Group("/requests")
	requestGroup.Use(r.authMiddleware.Authenticate)
	{
		requestGroup.GET("/:requestId", r.requestHandler.GetRequest)
		requestGroup.GET("/:requestId/items/:itemId/image", r.requestHandler.ResolveItemImage)
	}

	// Customer-side request routes
	customerRequestGroup := e.Group("/requests")
	customerRequestGroup.Use(r.authMiddleware.Authenticate)
	customerRequestGroup.Use(r.authMiddleware.RequireRole(string(entity.RoleCustomer)))
	{
		customerRequestGroup.POST("", r.requestHandler.Submit)
		customerRequestGroup.GET("", r.requestHandler.ListByCustomer)
	}

	// Provider-side request routes
	providerRequestGroup := e.Group("/requests")
	providerRequestGroup.Use(r.authMiddleware.Authenticate)
	providerRequestGroup.Use(r.authMiddleware.RequireRole(string(entity.RoleProvider)))
	{
		providerRequestGroup.GET("/live", r.requestHandler.ListLive)
		providerRequestGroup.GET("/jobs", r.requestHandler.ListByProvider)
		providerRequestGroup.POST("/:requestId/accept", r.requestHandler.Accept)
		providerRequestGroup.POST("/:requestId/cancel", r.requestHandler.Cancel)
		providerRequestGroup.POST("/:requestId/start", r.requestHandler.Start)
		providerRequestGroup.POST("/:requestId/complete", r.requestHandler.Complete)
	}

	// Provider payout onboarding
	providerGroup := e.Group("/provider")
	providerGroup.Use(r.authMiddleware.Authenticate)
	providerGroup.Use(r.authMiddleware.RequireRole(string(entity.RoleProvider)))
	{
		providerGroup.POST("/payout-account", r.userHandler.OnboardProvider)
	}

	// Notification log routes
	notificationGroup := e.Group("/notifications")
	notificationGroup.Use(r.authMiddleware.Authenticate)
	{
		notificationGroup.GET("", r.notificationHandler.ListNotifications)
		notificationGroup.POST("/:notificationId/read", r.notificationHandler.MarkRead)
	}
}
