package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ghost-kitchen/internal/common/httpx"
	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/config"
	assistanthandler "ghost-kitchen/internal/microservices/assistant/handler"
	carthandler "ghost-kitchen/internal/microservices/cart/handler"
	cartservice "ghost-kitchen/internal/microservices/cart/service"
	dartshandler "ghost-kitchen/internal/microservices/darts/handler"
	dartsservice "ghost-kitchen/internal/microservices/darts/service"
	kitchenhandler "ghost-kitchen/internal/microservices/kitchen/handler"
	kitchenservice "ghost-kitchen/internal/microservices/kitchen/service"
	menuhandler "ghost-kitchen/internal/microservices/menu/handler"
	orderhandlers "ghost-kitchen/internal/microservices/order/handlers"
	orderservice "ghost-kitchen/internal/microservices/order/service"
	registryhandler "ghost-kitchen/internal/microservices/registry/handler"
	registryservice "ghost-kitchen/internal/microservices/registry/service"
	reportshandler "ghost-kitchen/internal/microservices/reports/handler"
	reportsservice "ghost-kitchen/internal/microservices/reports/service"
	trackerhandler "ghost-kitchen/internal/microservices/tracker/handler"
	trackerservice "ghost-kitchen/internal/microservices/tracker/service"
	"ghost-kitchen/internal/repository"
)

// Deps is everything the HTTP surface needs. Now and Draw may be nil.
type Deps struct {
	State     repository.StateRepositoryInterface
	Carts     repository.CartRepository
	Assistant assistanthandler.AssistantServiceInterface
	HTTP      config.HTTPConfig
	Kitchen   config.KitchenConfig
	Tracking  config.TrackingConfig
	Now       func() time.Time
	Draw      func(n int) int
	Ping      func(r *http.Request) error
}

func NewRouter(d Deps) http.Handler {
	if d.Now == nil {
		d.Now = time.Now
	}

	orders := orderservice.NewOrderService(d.State, d.Carts, d.Now)
	registry := registryhandler.NewRegistryHandler(registryservice.NewRegistryService(d.State, d.Now))
	cart := carthandler.NewCartHandler(cartservice.NewCartService(d.Carts, d.State))
	order := orderhandlers.NewOrderHandler(orders)
	darts := dartshandler.NewDartsHandler(dartsservice.NewDartsService(d.State, d.Draw))
	tracker := trackerhandler.NewTrackerHandler(trackerservice.NewTrackerService(d.State, d.Tracking.PollInterval))
	kitchen := kitchenhandler.NewKitchenHandler(kitchenservice.NewKitchenService(d.State, orders, d.Kitchen))
	reports := reportshandler.NewReportsHandler(reportsservice.NewReportsService(d.State))
	menu := menuhandler.NewMenuHandler()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger.New("api")))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", health(d.Ping))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httpx.Sessions)

		r.Group(func(r chi.Router) {
			if d.HTTP.MaxConcurrent > 0 {
				r.Use(middleware.Throttle(d.HTTP.MaxConcurrent))
			}
			if d.HTTP.RequestTimeout > 0 {
				r.Use(middleware.Timeout(d.HTTP.RequestTimeout))
			}
			menu.Routes(r)
			registry.Routes(r)
			cart.Routes(r)
			order.Routes(r)
			darts.Routes(r)
			tracker.Routes(r)
			kitchen.Routes(r)
			reports.Routes(r)
			if d.Assistant != nil {
				assistanthandler.NewAssistantHandler(d.Assistant).Routes(r)
			}
		})

		// long-lived streams stay outside the throttle and the timeout
		tracker.StreamRoutes(r)
	})
	return r
}

func health(ping func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r); err != nil {
				httpx.WriteProblem(w, http.StatusServiceUnavailable, "unavailable", err.Error())
				return
			}
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// requestLogger writes one http_request entry per request, tagged with the
// chi request id.
func requestLogger(lg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := logger.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			lg.InfoCtx(ctx, "http_request", map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}
