package api

import (
	"context"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	business_calendar "github.com/SergeyKozhin/kinesio-crm/internal/business/calendar"
	"github.com/SergeyKozhin/kinesio-crm/internal/business/auth"
	"github.com/SergeyKozhin/kinesio-crm/internal/business/stats"
	"github.com/SergeyKozhin/kinesio-crm/internal/calendar"
	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/payment"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Api struct {
	handler http.Handler
	logger  *zap.SugaredLogger
	today   func() civil.Date

	corsOrigins    []string
	metrics        func(http.Handler) http.Handler
	metricsHandler http.Handler

	jwts        jwtManager
	authService authService

	db       database.PGX
	users    userRepository
	clients  clientRepository
	visits   visitRepository
	retreats retreatRepository

	settings        settingsService
	calendarService calendarService
	statsService    statsService
}

type jwtManager interface {
	GetIdFromToken(token string) (int64, error)
}

type authService interface {
	Register(ctx context.Context, email, password string) (*model.User, *auth.Tokens, error)
	Login(ctx context.Context, email, password string) (*model.User, *auth.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
}

type userRepository interface {
	GetUserByID(ctx context.Context, q database.Queryable, id int64) (*model.User, error)
}

type clientRepository interface {
	CreateClient(ctx context.Context, q database.Queryable, client *model.ClientCreate) (int64, error)
	GetClient(ctx context.Context, q database.Queryable, id int64) (*model.Client, error)
	ListClients(ctx context.Context, q database.Queryable, filter model.ClientsFilter) ([]*model.Client, int64, error)
	UpdateClient(ctx context.Context, q database.Queryable, id int64, update *model.ClientUpdate) error
	DeleteClient(ctx context.Context, q database.Queryable, id int64) error
}

type visitRepository interface {
	CreateVisit(ctx context.Context, q database.Queryable, visit *model.VisitCreate) (int64, error)
	GetVisit(ctx context.Context, q database.Queryable, id int64) (*model.VisitWithClient, error)
	ListVisits(ctx context.Context, q database.Queryable, filter model.VisitsFilter) ([]*model.VisitWithClient, error)
	CountVisits(ctx context.Context, q database.Queryable, filter model.VisitsFilter) (int64, error)
	UpdateVisit(ctx context.Context, q database.Queryable, id int64, update *model.VisitUpdate) error
	DeleteVisit(ctx context.Context, q database.Queryable, id int64) error
	ListTopics(ctx context.Context, q database.Queryable) ([]string, error)
}

type retreatRepository interface {
	CreateRetreat(ctx context.Context, q database.Queryable, retreat *model.RetreatCreate) (int64, error)
	GetRetreat(ctx context.Context, q database.Queryable, id int64) (*model.Retreat, error)
	ListRetreats(ctx context.Context, q database.Queryable, filter model.RetreatsFilter) ([]*model.Retreat, error)
	UpdateRetreat(ctx context.Context, q database.Queryable, id int64, update *model.RetreatUpdate) error
	DeleteRetreat(ctx context.Context, q database.Queryable, id int64) error
	AddParticipant(ctx context.Context, q database.Queryable, p *model.Participant) error
	UpdateParticipant(ctx context.Context, q database.Queryable, retreatID, clientID int64, update *model.ParticipantUpdate) error
	RemoveParticipant(ctx context.Context, q database.Queryable, retreatID, clientID int64) error
	AddExpense(ctx context.Context, q database.Queryable, e *model.Expense) (int64, error)
	RemoveExpense(ctx context.Context, q database.Queryable, retreatID, expenseID int64) error
}

type settingsService interface {
	Get(ctx context.Context) (*model.Settings, error)
	Update(ctx context.Context, settings *model.Settings) (*model.Settings, error)
	Classifier(ctx context.Context) *payment.Classifier
}

type calendarService interface {
	GetEvents(ctx context.Context, start, end civil.Date, filter calendar.EventFilter) ([]model.CalendarEvent, error)
	View(ctx context.Context, state calendar.NavigationState, direction *calendar.Direction) (*business_calendar.View, error)
}

type statsService interface {
	Overview(ctx context.Context, today civil.Date) (*stats.Overview, error)
	ClientStats(ctx context.Context, clientID int64, year int) (*stats.ClientStats, error)
	YearlySummary(ctx context.Context, year int) (*stats.YearlySummary, error)
	TopicStats(ctx context.Context, from, to *civil.Date) (*stats.TopicStats, error)
}

// Options holds the HTTP surface settings that are not services.
type Options struct {
	CorsOrigins    []string
	Metrics        func(http.Handler) http.Handler
	MetricsHandler http.Handler
	Today          func() civil.Date
}

func NewApi(
	logger *zap.SugaredLogger,
	opts Options,
	jwts jwtManager,
	authService authService,
	db database.PGX,
	users userRepository,
	clients clientRepository,
	visits visitRepository,
	retreats retreatRepository,
	settings settingsService,
	calendarService calendarService,
	statsService statsService,
) (*Api, error) {
	a := &Api{
		logger:          logger,
		today:           opts.Today,
		corsOrigins:     opts.CorsOrigins,
		metrics:         opts.Metrics,
		metricsHandler:  opts.MetricsHandler,
		jwts:            jwts,
		authService:     authService,
		db:              db,
		users:           users,
		clients:         clients,
		visits:          visits,
		retreats:        retreats,
		settings:        settings,
		calendarService: calendarService,
		statsService:    statsService,
	}
	if a.today == nil {
		a.today = func() civil.Date { return civil.DateOf(time.Now()) }
	}
	a.setupHandler()

	return a, nil
}

func (a *Api) setupHandler() {
	middleware.DefaultLogger = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.logger.Debugw(r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"protocol", r.Proto,
				"method", r.Method,
			)
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewMux()

	r.Use(middleware.Logger, middleware.Recoverer, middleware.StripSlashes, a.cors)
	if a.metrics != nil {
		r.Use(a.metrics)
	}
	r.NotFound(a.notFoundResponse)
	r.MethodNotAllowed(a.methodNotAllowedResponse)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if a.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", a.metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", a.registerHandler)
			r.Post("/login", a.loginHandler)
			r.Post("/refresh", a.refreshTokenHandler)
			r.Post("/logout", a.logoutUserHandler)
			r.With(a.auth, a.userCtx).Get("/me", a.getUserHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(a.auth)

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", a.listClientsHandler)
				r.Post("/", a.createClientHandler)

				r.With(a.clientCtx).Route("/{clientID}", func(r chi.Router) {
					r.Get("/", a.getClientHandler)
					r.Put("/", a.updateClientHandler)
					r.Delete("/", a.deleteClientHandler)
					r.Get("/visits", a.listClientVisitsHandler)
					r.Post("/visits", a.createVisitHandler)
				})
			})

			r.Route("/visits/{visitID}", func(r chi.Router) {
				r.Put("/", a.updateVisitHandler)
				r.Delete("/", a.deleteVisitHandler)
			})

			r.Route("/retreats", func(r chi.Router) {
				r.Get("/", a.listRetreatsHandler)
				r.Post("/", a.createRetreatHandler)

				r.With(a.retreatCtx).Route("/{retreatID}", func(r chi.Router) {
					r.Get("/", a.getRetreatHandler)
					r.Put("/", a.updateRetreatHandler)
					r.Delete("/", a.deleteRetreatHandler)
					r.Post("/participants", a.addParticipantHandler)
					r.Put("/participants/{clientID}", a.updateParticipantHandler)
					r.Delete("/participants/{clientID}", a.removeParticipantHandler)
					r.Post("/expenses", a.addExpenseHandler)
					r.Delete("/expenses/{expenseID}", a.removeExpenseHandler)
				})
			})

			r.Route("/calendar", func(r chi.Router) {
				r.Get("/events", a.getEventsHandler)
				r.Get("/view", a.getCalendarViewHandler)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", a.getSettingsHandler)
				r.Put("/", a.updateSettingsHandler)
			})

			r.Route("/stats", func(r chi.Router) {
				r.Get("/overview", a.statsOverviewHandler)
				r.Get("/client/{clientID}", a.clientStatsHandler)
				r.Get("/yearly-summary", a.yearlySummaryHandler)
				r.Get("/topics", a.topicStatsHandler)
			})

			r.Get("/topics", a.listTopicsHandler)
		})
	})

	a.handler = r
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
