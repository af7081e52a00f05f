package routes

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/handlers"
	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/middlewares"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/renderer"
	"github.com/Rakhulsr/go-storefront/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Config struct {
	Production  bool
	CSRFEnabled bool
	// CSRFKey must be 32 bytes when CSRF protection is enabled.
	CSRFKey []byte
	Store   repositories.Options
}

// NewRouter wires repositories, services and handlers over db.
func NewRouter(db *gorm.DB, cartSessions sessions.CartSessionStore, cfg Config, log *zap.Logger) *mux.Router {
	store := repositories.NewStore(db, cfg.Store)
	hub := services.NewTotalsHub(log)
	validate := helpers.NewValidator()
	render := renderer.New(cfg.Production)

	catalog := services.NewCatalogService(store, log)
	campaigns := services.NewCampaignService(store, hub, log)
	carts := services.NewCartService(store, hub, log)
	reviews := services.NewReviewService(store, validate, log)
	checkout := services.NewCheckoutService(store, carts, hub, log)

	productHandler := handlers.NewProductHandler(catalog, validate, render, log)
	campaignHandler := handlers.NewCampaignHandler(campaigns, render, log)
	cartHandler := handlers.NewCartHandler(carts, checkout, render, log)
	reviewHandler := handlers.NewReviewHandler(reviews, render, log)
	exportHandler := handlers.NewExportHandler(catalog, render, log)
	socketHandler := handlers.NewTotalsSocketHandler(carts, hub, log)

	router := mux.NewRouter()
	router.Use(middlewares.Recoverer(log), middlewares.RequestLogger(log))
	if cfg.CSRFEnabled {
		router.Use(csrf.Protect(cfg.CSRFKey,
			csrf.Secure(cfg.Production),
			csrf.Path("/"),
			csrf.ErrorHandler(http.HandlerFunc(csrfFailure(render, log))),
		))
	}

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_ = render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/csrf-token", func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cfg.CSRFEnabled {
			token = csrf.Token(r)
		}
		_ = render.JSON(w, http.StatusOK, map[string]string{"csrf_token": token})
	}).Methods("GET")

	api.HandleFunc("/products", productHandler.List).Methods("GET")
	api.HandleFunc("/products/export", exportHandler.Products).Methods("GET")
	api.HandleFunc("/products/slug/{slug}", productHandler.GetBySlug).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}", productHandler.Get).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}/reviews", reviewHandler.Submit).Methods("POST")
	api.HandleFunc("/categories", productHandler.Categories).Methods("GET")

	api.HandleFunc("/campaigns", campaignHandler.List).Methods("GET")
	api.HandleFunc("/campaigns", campaignHandler.Apply).Methods("POST")

	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(middlewares.CartSession(cartSessions, log))
	cart.HandleFunc("", cartHandler.Get).Methods("GET")
	cart.HandleFunc("", cartHandler.Empty).Methods("DELETE")
	cart.HandleFunc("/count", cartHandler.Count).Methods("GET")
	cart.HandleFunc("/totals", cartHandler.Totals).Methods("GET")
	cart.HandleFunc("/checkout", cartHandler.Checkout).Methods("POST")
	cart.HandleFunc("/items", cartHandler.Add).Methods("POST")
	cart.HandleFunc("/items/{id:[0-9]+}/quantity", cartHandler.UpdateQuantity).Methods("PATCH")
	cart.HandleFunc("/items/{id:[0-9]+}/note", cartHandler.UpdateNote).Methods("PATCH")
	cart.HandleFunc("/items/{id:[0-9]+}", cartHandler.Remove).Methods("DELETE")

	ws := router.PathPrefix("/ws").Subrouter()
	ws.Use(middlewares.CartSession(cartSessions, log))
	ws.HandleFunc("/cart", socketHandler.Serve).Methods("GET")

	return router
}
