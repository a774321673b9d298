package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sou2aq/platform/internal/platform/service"
	"github.com/sou2aq/platform/internal/platform/store"
	"github.com/sou2aq/platform/pkg/httpx"
	"github.com/sou2aq/platform/pkg/jwtx"
	"github.com/sou2aq/platform/pkg/slogx"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	AuthService         *service.AuthService
	SessionService      *service.SessionService
	RegistrationService *service.RegistrationService
	UserService         *service.UserService
	SiteService         *service.SiteService
	ArticleService      *service.ArticleService
	MapService          *service.MapService
	OwnershipService    *service.OwnershipService
}

// NewRouter builds a Router with the access-token verifier used by every
// authenticated route.
func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSites()
	r.registerArticles()
	r.registerMaps()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title			SOU2AQ Platform API
//	@version		0.1.0
//	@description	Multi-tenant sites platform: session-scoped JWT authentication with
//	@description	device-bound refresh tokens, and ownership-based authorization over
//	@description	sites, articles, and map pins.
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Public registration endpoints - strict rate limit by IP
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(&RegisterHandler{RegistrationService: r.RegistrationService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/verify-otp",
		httpx.Chain(&VerifyOTPHandler{RegistrationService: r.RegistrationService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/resend-otp",
		httpx.Chain(&ResendOTPHandler{RegistrationService: r.RegistrationService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Login derives the device fingerprint before the handler runs.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService},
			httpx.DeviceIdentity(),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/refresh-token",
		httpx.Chain(&RefreshHandler{AuthService: r.AuthService},
			httpx.DeviceIdentity(),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Bearer-token session management
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(&LogoutHandler{SessionService: r.SessionService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout-all",
		httpx.Chain(&LogoutAllHandler{SessionService: r.SessionService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/auth/sessions",
		httpx.Chain(&SessionsHandler{SessionService: r.SessionService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/auth/profile",
		httpx.Chain(&ProfileHandler{UserService: r.UserService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UserHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/users",
		httpx.Chain(http.HandlerFunc(h.List),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(httpx.RoleSuperAdmin),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.Get),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireSelfOrSuperAdmin("id"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.Update),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireSelfOrSuperAdmin("id"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSites() {
	h := &SiteHandler{SiteService: r.SiteService}

	// Public reads
	r.Mux.Handle("GET /v1/sites/{id}",
		httpx.Chain(http.HandlerFunc(h.Get),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /v1/sites/public/{subdomain}",
		httpx.Chain(http.HandlerFunc(h.GetBySubdomain),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// Authenticated listing: superAdmin sees all, others their own
	r.Mux.Handle("GET /v1/sites",
		httpx.Chain(http.HandlerFunc(h.List),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// Only admins run sites
	r.Mux.Handle("POST /v1/sites",
		httpx.Chain(http.HandlerFunc(h.Create),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(httpx.RoleAdmin, httpx.RoleSuperAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("PATCH /v1/sites/{id}",
		httpx.Chain(http.HandlerFunc(h.Update),
			httpx.AuthnMiddleware(r.verifier),
			requireOwner(r.OwnershipService.SiteOwner, "id"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/sites/{id}",
		httpx.Chain(http.HandlerFunc(h.Delete),
			httpx.AuthnMiddleware(r.verifier),
			requireOwner(r.OwnershipService.SiteOwner, "id"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// Activation toggle is a superAdmin moderation tool
	r.Mux.Handle("PATCH /v1/sites/{id}/activate",
		httpx.Chain(http.HandlerFunc(h.SetActive),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(httpx.RoleSuperAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerArticles() {
	h := &ArticleHandler{ArticleService: r.ArticleService}

	// Public reads
	r.Mux.Handle("GET /v1/articles",
		httpx.Chain(http.HandlerFunc(h.List),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /v1/articles/{id}",
		httpx.Chain(http.HandlerFunc(h.Get),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /v1/sites/{id}/articles",
		httpx.Chain(http.HandlerFunc(h.ListBySite),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// Create carries siteId in the body; ownership is resolved from it.
	r.Mux.Handle("POST /v1/articles",
		httpx.Chain(http.HandlerFunc(h.Create),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(httpx.RoleAdmin, httpx.RoleSuperAdmin),
			requireOwnerFromBody(r.OwnershipService.SiteOwner, "siteId"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("PATCH /v1/articles/{id}",
		httpx.Chain(http.HandlerFunc(h.Update),
			httpx.AuthnMiddleware(r.verifier),
			requireOwner(r.OwnershipService.ArticleOwner, "id"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/articles/{id}",
		httpx.Chain(http.HandlerFunc(h.Delete),
			httpx.AuthnMiddleware(r.verifier),
			requireOwner(r.OwnershipService.ArticleOwner, "id"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerMaps() {
	h := &MapHandler{MapService: r.MapService}

	// Public reads
	r.Mux.Handle("GET /v1/maps/{id}",
		httpx.Chain(http.HandlerFunc(h.Get),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /v1/sites/{id}/maps",
		httpx.Chain(http.HandlerFunc(h.ListBySite),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("POST /v1/maps",
		httpx.Chain(http.HandlerFunc(h.Create),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(httpx.RoleAdmin, httpx.RoleSuperAdmin),
			requireOwnerFromBody(r.OwnershipService.SiteOwner, "siteId"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/maps/{id}",
		httpx.Chain(http.HandlerFunc(h.Update),
			httpx.AuthnMiddleware(r.verifier),
			requireOwner(r.OwnershipService.MapOwner, "id"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/maps/{id}",
		httpx.Chain(http.HandlerFunc(h.Delete),
			httpx.AuthnMiddleware(r.verifier),
			requireOwner(r.OwnershipService.MapOwner, "id"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
