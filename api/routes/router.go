package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/srobertsphd/alano-club/api/controllers"
	"github.com/srobertsphd/alano-club/api/middleware"
	"github.com/srobertsphd/alano-club/internal/backups"
	"github.com/srobertsphd/alano-club/internal/friends"
	"github.com/srobertsphd/alano-club/internal/members"
	"github.com/srobertsphd/alano-club/internal/membertypes"
	"github.com/srobertsphd/alano-club/internal/paymentmethods"
	"github.com/srobertsphd/alano-club/internal/payments"
	"github.com/srobertsphd/alano-club/internal/reports"
	"github.com/srobertsphd/alano-club/pkg/config"
	"github.com/srobertsphd/alano-club/pkg/db"
	"github.com/srobertsphd/alano-club/pkg/logger"
	pkgredis "github.com/srobertsphd/alano-club/pkg/redis"
)

// Services bundles everything the router wires into controllers.
type Services struct {
	Members        *members.Service
	MemberTypes    *membertypes.Service
	PaymentMethods *paymentmethods.Service
	Friends        *friends.Service
	Payments       *payments.Service
	Reports        *reports.Service
	Backups        *backups.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger(redisClient)))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	// every operational route sits behind the admin token; this service has
	// no public surface beyond health and metrics
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.Admin, logg))
		var idempotencyStore pkgredis.IdempotencyStore
		if redisClient != nil {
			idempotencyStore = redisClient
		}
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/members", func(r chi.Router) {
			r.Get("/", controllers.SearchMembers(svcs.Members, logg))
			r.Post("/", controllers.CreateMember(svcs.Members, logg))
			r.Get("/stats", controllers.MemberStats(svcs.Members, logg))
			r.Get("/expiring", controllers.ListExpiringMembers(svcs.Members, logg))
			r.Route("/{memberId}", func(r chi.Router) {
				r.Get("/", controllers.GetMember(svcs.Members, logg))
				r.Patch("/", controllers.UpdateMember(svcs.Members, logg))
				r.Post("/deactivate", controllers.DeactivateMember(svcs.Members, logg))
				r.Post("/deceased", controllers.MarkMemberDeceased(svcs.Members, logg))
				r.Get("/payments", controllers.ListMemberPayments(svcs.Payments, logg))
				r.Route("/friends", func(r chi.Router) {
					r.Get("/", controllers.ListMemberFriends(svcs.Friends, logg))
					r.Post("/", controllers.CreateFriend(svcs.Friends, logg))
				})
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", controllers.ProcessPayment(svcs.Payments, logg))
			r.Get("/{paymentId}", controllers.GetPayment(svcs.Payments, logg))
		})

		r.Route("/member-types", func(r chi.Router) {
			r.Get("/", controllers.ListMemberTypes(svcs.MemberTypes, logg))
			r.Post("/", controllers.CreateMemberType(svcs.MemberTypes, logg))
			r.Patch("/{memberTypeId}", controllers.UpdateMemberType(svcs.MemberTypes, logg))
			r.Delete("/{memberTypeId}", controllers.DeleteMemberType(svcs.MemberTypes, logg))
		})

		r.Route("/payment-methods", func(r chi.Router) {
			r.Get("/", controllers.ListPaymentMethods(svcs.PaymentMethods, logg))
			r.Post("/", controllers.CreatePaymentMethod(svcs.PaymentMethods, logg))
			r.Patch("/{paymentMethodId}", controllers.UpdatePaymentMethod(svcs.PaymentMethods, logg))
			r.Delete("/{paymentMethodId}", controllers.DeletePaymentMethod(svcs.PaymentMethods, logg))
		})

		r.Route("/friends", func(r chi.Router) {
			r.Patch("/{friendId}", controllers.UpdateFriend(svcs.Friends, logg))
			r.Delete("/{friendId}", controllers.DeleteFriend(svcs.Friends, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/roster", controllers.MemberRosterReport(svcs.Reports, logg))
			r.Get("/payments", controllers.PaymentsReport(svcs.Reports, logg))
			r.Get("/directory", controllers.MemberDirectoryReport(svcs.Reports, logg))
		})

		r.Route("/admin/backups", func(r chi.Router) {
			r.Get("/", controllers.ListBackups(svcs.Backups, logg))
			r.Post("/", controllers.TriggerBackup(svcs.Backups, logg))
		})
	})

	return r
}

func redisPinger(client *pkgredis.Client) pkgredis.Pinger {
	if client == nil {
		return nil
	}
	return client
}
