package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kinawahq/foodorder-backend/api/controllers"
	"github.com/kinawahq/foodorder-backend/api/middleware"
	"github.com/kinawahq/foodorder-backend/internal/catalog"
	"github.com/kinawahq/foodorder-backend/internal/invoices"
	"github.com/kinawahq/foodorder-backend/internal/orders"
	"github.com/kinawahq/foodorder-backend/internal/programs"
	"github.com/kinawahq/foodorder-backend/pkg/config"
	"github.com/kinawahq/foodorder-backend/pkg/db"
	"github.com/kinawahq/foodorder-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	registry *prometheus.Registry,
	catalogSvc catalog.Service,
	programSvc programs.Service,
	orderSvc orders.Service,
	invoiceSvc invoices.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.SearchProducts(catalogSvc, logg))
			r.Get("/categories", controllers.ProductCategories(catalogSvc, logg))
			r.Get("/frequent", controllers.FrequentProducts(catalogSvc, logg))
			r.Route("/{itemCode}", func(r chi.Router) {
				r.Get("/", controllers.GetProduct(catalogSvc, logg))
				r.Delete("/", controllers.DeleteProduct(catalogSvc, logg))
				r.Post("/deactivate", controllers.DeactivateProduct(catalogSvc, logg))
				r.Post("/reactivate", controllers.ReactivateProduct(catalogSvc, logg))
				r.Put("/tags", controllers.UpdateProductTags(catalogSvc, logg))
			})
		})

		r.Route("/programs", func(r chi.Router) {
			r.Get("/", controllers.ListPrograms(programSvc, logg))
			r.Get("/by-category", controllers.ProgramsByCategory(programSvc, logg))
			r.Post("/", controllers.CreateProgram(programSvc, logg))
			r.Post("/{code}/deactivate", controllers.DeactivateProgram(programSvc, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(orderSvc, logg))
			r.Post("/", controllers.CreateOrder(orderSvc, logg))
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", controllers.GetOrder(orderSvc, logg))
				r.Delete("/", controllers.DeleteOrder(orderSvc, logg))
				r.Get("/estimate", controllers.OrderEstimate(orderSvc, logg))
				r.Get("/allocation", controllers.OrderAllocation(orderSvc, logg))
				r.Post("/status", controllers.TransitionOrder(orderSvc, logg))
				r.Post("/duplicate", controllers.DuplicateOrder(orderSvc, logg))
				r.Post("/items", controllers.AddOrderLine(orderSvc, logg))
				r.Route("/items/{itemID}", func(r chi.Router) {
					r.Put("/", controllers.UpdateOrderLine(orderSvc, logg))
					r.Delete("/", controllers.RemoveOrderLine(orderSvc, logg))
				})
			})
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.ListInvoices(invoiceSvc, logg))
			r.Post("/", controllers.RecordInvoice(invoiceSvc, logg))
			r.Route("/{number}", func(r chi.Router) {
				r.Get("/", controllers.GetInvoice(invoiceSvc, logg))
				r.Delete("/", controllers.DeleteInvoice(invoiceSvc, logg))
			})
		})
	})

	return r
}
