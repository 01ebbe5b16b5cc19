// Package routes assembles the gin engine: ambient middleware, the route table
// and the access guard placement for each route.
package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	sloggin "github.com/samber/slog-gin"

	"watchshop/internal/config"
	"watchshop/internal/handlers"
	"watchshop/internal/middleware"
	"watchshop/internal/repository"
)

// Deps is everything the router needs besides configuration.
type Deps struct {
	Repos  repository.Set
	Tokens interface {
		handlers.TokenIssuer
		middleware.TokenVerifier
	}
	Payments handlers.PaymentBridge
}

// NewRouter builds the engine. With cfg.RequireAdminRole set, the elevated routes
// additionally require an administrator token.
func NewRouter(cfg *config.Config, logger *slog.Logger, deps Deps) *gin.Engine {
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()
	r.Use(
		middleware.RequestID(logger),
		sloggin.NewWithConfig(logger, sloggin.Config{
			DefaultLevel:     slog.LevelInfo,
			ClientErrorLevel: slog.LevelWarn,
			ServerErrorLevel: slog.LevelError,
			WithRequestID:    true,
		}),
		middleware.Recovery(),
		cors.New(corsConfig(cfg.AllowedOrigins)),
	)

	h := handlers.New(deps.Repos, deps.Tokens, deps.Payments, cfg.RequestTimeout)
	authed := middleware.AuthRequired(deps.Tokens)

	// elevated guards routes that change roles, delete users or edit the catalogue.
	// Without the admin switch it only applies the token check on user listing,
	// matching the hardened deployment.
	elevated := func(tokenByDefault bool) []gin.HandlerFunc {
		if cfg.RequireAdminRole {
			return []gin.HandlerFunc{authed, middleware.RequireAdmin(deps.Repos.Users, cfg.RequestTimeout)}
		}
		if tokenByDefault {
			return []gin.HandlerFunc{authed}
		}
		return nil
	}
	with := func(guards []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(guards, handler)
	}

	r.GET("/", h.Health)
	r.POST("/jwt", h.IssueToken)

	items := r.Group("/items")
	{
		items.GET("", h.ListProducts)
		items.GET("/:id", h.GetProduct)
		items.POST("", with(elevated(false), h.CreateProduct)...)
		items.PUT("/:id", with(elevated(false), h.UpsertProduct)...)
		items.DELETE("/:id", with(elevated(false), h.DeleteProduct)...)
	}

	r.GET("/reviews", h.ListReviews)

	carts := r.Group("/carts")
	{
		carts.POST("", h.AddToCart)
		carts.GET("/:"+handlers.CartParam, authed, middleware.RequireOwner(handlers.CartParam), h.ListCart)
		carts.DELETE("/:"+handlers.CartParam, h.RemoveFromCart)
	}

	users := r.Group("/users")
	{
		users.POST("", h.RegisterUser)
		users.GET("", with(elevated(true), h.ListUsers)...)
		users.GET("/:"+handlers.UserParam+"/admin-status", authed, middleware.RequireOwner(handlers.UserParam), h.AdminStatus)
		users.PATCH("/:"+handlers.UserParam+"/admin", with(elevated(false), h.GrantAdmin)...)
		users.DELETE("/:"+handlers.UserParam, with(elevated(false), h.DeleteUser)...)
	}

	r.POST("/create-payment-intent", h.CreatePaymentIntent)
	r.POST("/payment", h.SettlePayment)
	r.GET("/payment/history/:email", authed, middleware.RequireOwner("email"), h.PaymentHistory)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderXRequestID},
		ExposeHeaders: []string{middleware.HeaderXRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
