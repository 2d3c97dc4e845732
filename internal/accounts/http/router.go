package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"github.com/userdock/userdock/internal/accounts/service"
	"github.com/userdock/userdock/internal/accounts/store"
	"github.com/userdock/userdock/pkg/httpx"
	"github.com/userdock/userdock/pkg/slogx"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/userdock/userdock/api/docs" // Swagger docs
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AuthService *service.AuthService
}

func NewRouter(
	st store.Store,
	logger *slog.Logger,
	corsOrigins []string,
	buildVersion string,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
	}

	// Set default middleware chain. CORS sits outside the logger so
	// preflight requests are answered without touching handlers.
	r.middlewares = []httpx.Middleware{
		cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}),
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Userdock Account Service API
//	@version		0.1.0
//	@description	Minimal user-account service exposing registration and login,
//	@description	issuing HS256-signed session tokens valid for one hour.
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	r.Mux.Handle("POST /register", &RegisterHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /login", &LoginHandler{AuthService: r.AuthService})
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
