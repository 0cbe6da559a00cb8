package router

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"laikavet/docs"
	jwtauth "laikavet/internal/adapters/auth/jwt"
	"laikavet/internal/adapters/notify/lognotify"
	"laikavet/internal/adapters/payments/simulated"
	mem "laikavet/internal/adapters/storage/memory"
	pg "laikavet/internal/adapters/storage/postgres"
	rds "laikavet/internal/adapters/storage/redis"
	"laikavet/internal/adapters/storage/seed"
	"laikavet/internal/domain/appointments"
	"laikavet/internal/domain/cart"
	"laikavet/internal/domain/catalog"
	"laikavet/internal/domain/checkout"
	"laikavet/internal/domain/orders"
	"laikavet/internal/domain/patients"
	"laikavet/internal/domain/sales"
	"laikavet/internal/domain/sessions"
	"laikavet/internal/domain/users"
	"laikavet/internal/middleware"
	"laikavet/internal/platform/logger"
	"laikavet/internal/ports/notify"
	"laikavet/internal/ports/payments"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory con datos demo.
	DB *sql.DB
	// Opcional: sesiones y carritos en Redis. Si no, LRU y memoria.
	Redis *goredis.Client

	Notifier notify.Notifier  // default: log
	Gateway  payments.Gateway // default: simulado sin latencia
	Logger   logger.Logger

	JWTSecret  string
	SessionTTL time.Duration
	AuthDelay  time.Duration
	CacheSize  int

	CORSOrigins       []string
	AllowDebugHeaders bool // X-Debug-User-ID, sólo en local

	Now func() time.Time
}

// App es el handler HTTP más los servicios que usan los jobs.
type App struct {
	http.Handler
	Appointments *appointments.Service
}

type repos struct {
	users        users.Repository
	patients     patients.Repository
	products     catalog.Repository
	appointments appointments.Repository
	orders       orders.Repository
	sales        sales.Repository
	checkouts    checkout.Repository
}

var (
	staffZone = middleware.Zone{
		Name: "admin",
		Roles: []string{
			string(users.RoleAdmin),
			string(users.RoleVeterinarian),
			string(users.RoleReceptionist),
		},
		Homes: map[string]string{string(users.RoleClient): users.RoleClient.Home()},
	}
	clientZone = middleware.Zone{
		Name:  "client",
		Roles: []string{string(users.RoleClient)},
		Homes: map[string]string{
			string(users.RoleAdmin):        users.RoleAdmin.Home(),
			string(users.RoleVeterinarian): users.RoleVeterinarian.Home(),
			string(users.RoleReceptionist): users.RoleReceptionist.Home(),
		},
	}
)

func New(opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.JWTSecret == "" {
		return nil, errors.New("router: jwt secret required")
	}

	rp, err := buildRepos(opts, now)
	if err != nil {
		return nil, err
	}

	var (
		sessStore sessions.Store
		cartStore cart.Store
	)
	if opts.Redis != nil {
		sessStore = rds.NewSessionStore(opts.Redis)
		cartStore = rds.NewCartStore(opts.Redis, rds.DefaultCartTTL)
	} else {
		sessStore = mem.NewSessionStore(mem.DefaultSessionCapacity, opts.SessionTTL)
		cartStore = mem.NewCartStore()
	}

	codec, err := jwtauth.NewCodec(opts.JWTSecret)
	if err != nil {
		return nil, err
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = lognotify.New(log)
	}
	gateway := opts.Gateway
	if gateway == nil {
		gateway = simulated.New(0, nil)
	}

	// Services por módulo
	usersSvc := users.NewService(rp.users, users.FixedDelay(opts.AuthDelay), log)
	sessionsSvc := sessions.NewService(sessStore, codec, opts.SessionTTL, log)
	patientsSvc := patients.NewService(rp.patients, usersSvc, log)
	apptsSvc := appointments.NewService(rp.appointments, patientsSvc, usersSvc, notifier, log)
	catalogSvc := catalog.NewService(rp.products, opts.CacheSize, log)
	cartSvc := cart.NewService(cartStore, catalogSvc, log)
	ordersSvc := orders.NewService(rp.orders, log)
	salesSvc := sales.NewService(rp.sales, log)
	checkoutSvc := checkout.NewService(rp.checkouts, cartSvc, catalogSvc, ordersSvc, gateway, log)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLog(log))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler)

	r.Use(middleware.AuthContext(sessionsSvc, opts.AllowDebugHeaders))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
	))

	users.RegisterAuthRoutes(r, usersSvc, sessionsSvc)

	// Consola clínica
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(middleware.RequireRole(staffZone))

		appointments.RegisterRoutes(ar, apptsSvc)
		patients.RegisterRoutes(ar, patientsSvc)
		catalog.RegisterInventoryRoutes(ar, catalogSvc)
		sales.RegisterRoutes(ar, salesSvc)
		users.RegisterDirectoryRoutes(ar, usersSvc)
	})

	// Tienda: el catálogo es público, el resto requiere rol client
	r.Route("/client", func(cr chi.Router) {
		catalog.RegisterStorefrontRoutes(cr, catalogSvc)

		cr.Group(func(pr chi.Router) {
			pr.Use(middleware.RequireRole(clientZone))

			cart.RegisterRoutes(pr, cartSvc)
			checkout.RegisterRoutes(pr, checkoutSvc)
			orders.RegisterRoutes(pr, ordersSvc)
		})
	})

	return &App{Handler: r, Appointments: apptsSvc}, nil
}

func buildRepos(opts Options, now func() time.Time) (repos, error) {
	if opts.DB != nil {
		db := opts.DB
		return repos{
			users:        pg.NewUsersRepo(db),
			patients:     pg.NewPatientsRepo(db),
			products:     pg.NewProductsRepo(db),
			appointments: pg.NewAppointmentsRepo(db),
			orders:       pg.NewOrdersRepo(db),
			sales:        pg.NewSalesRepo(db),
			checkouts:    pg.NewCheckoutRepo(db),
		}, nil
	}

	rp := repos{
		users:        mem.NewUserRepo(),
		patients:     mem.NewPatientRepo(),
		products:     mem.NewProductRepo(),
		appointments: mem.NewAppointmentRepo(),
		orders:       mem.NewOrderRepo(),
		sales:        mem.NewSaleRepo(),
		checkouts:    mem.NewCheckoutRepo(),
	}
	err := seed.Load(context.Background(), seed.Targets{
		Users:        rp.users,
		Patients:     rp.patients,
		Products:     rp.products,
		Appointments: rp.appointments,
		Orders:       rp.orders,
		Sales:        rp.sales,
	}, now())
	if err != nil {
		return repos{}, err
	}
	return rp, nil
}
