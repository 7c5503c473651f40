package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"hireshop-backend/internal/security"
	"hireshop-backend/internal/service"
)

const defaultMaxUploadBytes = 10 << 20

// Handlers bundles what the REST surface is served from.
type Handlers struct {
	Pricing        service.PricingService
	Checkout       service.CheckoutService
	Booking        service.BookingService
	Tokens         security.TokenManager
	MaxUploadBytes int64
}

// NewRouter registers every API route on a fresh mux router.
func NewRouter(h Handlers) *mux.Router {
	if h.MaxUploadBytes <= 0 {
		h.MaxUploadBytes = defaultMaxUploadBytes
	}

	router := mux.NewRouter()
	router.Use(loggingMiddleware)
	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(h.Tokens))

	pricingHandler := &pricingHandler{svc: h.Pricing, maxUploadBytes: h.MaxUploadBytes}
	staff := api.PathPrefix("/pricing").Subrouter()
	staff.Use(RequireRole(security.RoleStaff))
	staff.HandleFunc("/imports/{schema}", pricingHandler.Import).Methods(http.MethodPost)
	staff.HandleFunc("/exports/{schema}", pricingHandler.Export).Methods(http.MethodGet)

	orderHandler := &orderHandler{svc: h.Checkout}
	api.HandleFunc("/orders/quote", orderHandler.Quote).Methods(http.MethodPost)

	assetHandler := &assetHandler{svc: h.Booking}
	api.HandleFunc("/assets/{id:[0-9]+}/calendar", assetHandler.Calendar).Methods(http.MethodGet)
	api.HandleFunc("/assets/{id:[0-9]+}/availability", assetHandler.Availability).Methods(http.MethodPost)
	api.HandleFunc("/assets/{id:[0-9]+}/bookings", assetHandler.Book).Methods(http.MethodPost)

	return router
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
