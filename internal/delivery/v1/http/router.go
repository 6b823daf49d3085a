package http

import (
	"net/http"

	"github.com/eshop-tech/store-backend/internal/cfg"
	"github.com/eshop-tech/store-backend/internal/i18n"
	"github.com/eshop-tech/store-backend/internal/usecase"
	"github.com/eshop-tech/store-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Router struct {
	router *chi.Mux
	i18n   *i18n.Bundle
	logger logger.Logger
}

func NewRouter(router *chi.Mux, bundle *i18n.Bundle, logger logger.Logger) *Router {
	return &Router{router: router, i18n: bundle, logger: logger}
}

func (r *Router) Init(corsCfg *cfg.CorsCfg, authUC usecase.AuthUC, productUC usecase.ProductUC, cartUC usecase.CartUC, orderUC usecase.OrderUC) {
	r.router.Use(RequestID)
	r.router.Use(Locale(r.i18n))
	r.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", headerRequestID},
		ExposedHeaders:   []string{headerRequestID},
		AllowCredentials: true,
	}))

	r.router.Get("/", func(w http.ResponseWriter, req *http.Request) {
		WriteJSON(w, http.StatusOK, MessageResponse{Message: "ok"})
	})

	authHandler := NewAuthHandler(authUC, r.i18n, r.logger)
	productHandler := NewProductHandler(productUC, r.i18n, r.logger)
	cartHandler := NewCartHandler(cartUC, r.i18n, r.logger)
	orderHandler := NewOrderHandler(orderUC, r.i18n, r.logger)
	adminHandler := NewAdminHandler(productUC, r.i18n, r.logger)

	authenticated := Authenticate(authUC, r.i18n, r.logger)
	adminOnly := RequireAdmin(r.i18n)

	r.router.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", authHandler.register)
			auth.Post("/login", authHandler.login)
			auth.With(authenticated).Get("/me", authHandler.me)
		})

		api.Route("/products", func(pr chi.Router) {
			pr.Get("/", productHandler.listProducts)
			pr.Get("/{id}", productHandler.getProduct)
		})

		api.Group(func(private chi.Router) {
			private.Use(authenticated)

			private.Route("/cart", func(cart chi.Router) {
				cart.Get("/", cartHandler.getCart)
				cart.Post("/", cartHandler.addItem)
				cart.Put("/{itemID}", cartHandler.updateItem)
				cart.Delete("/{itemID}", cartHandler.deleteItem)
			})

			private.Route("/orders", func(orders chi.Router) {
				orders.Post("/", orderHandler.placeOrder)
				orders.Get("/", orderHandler.listOrders)
				orders.Get("/{orderID}", orderHandler.getOrder)
			})
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(authenticated, adminOnly)

			admin.Route("/products", func(pr chi.Router) {
				pr.Post("/", adminHandler.createProduct)
				pr.Put("/{id}", adminHandler.updateProduct)
				pr.Patch("/{id}/toggle-active", adminHandler.toggleProductActive)
				pr.Post("/{id}/image", adminHandler.uploadProductImage)
			})
		})
	})
}
