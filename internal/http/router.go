package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/openlots/lendpool/internal/domain"
	"github.com/openlots/lendpool/internal/service"
	"github.com/openlots/lendpool/internal/store"
	"github.com/openlots/lendpool/pkg/httpx"
	"github.com/openlots/lendpool/pkg/slogx"

	_ "github.com/openlots/lendpool/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	sessions     *scs.SessionManager

	store               store.Store
	AuthService         *service.AuthService
	PoolService         *service.PoolService
	InvestmentService   *service.InvestmentService
	VerificationService *service.VerificationService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	sessions *scs.SessionManager,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		sessions:     sessions,
		logger:       logger,
	}

	// Session load/save wraps everything so both the auth service and scs see
	// a loaded session context on every route.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.sessions.LoadAndSave,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerVerification()
	r.registerPools()
	r.registerInvestor()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpx.Chain(httpSwagger.Handler(),
		httpx.RateLimitByIP(httpx.PublicLimit),
	))
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			LendPool Marketplace API
//	@version		0.1.0
//	@description	Lending-marketplace backend: borrowers create property funding pools, investors browse and commit capital.
//	@description
//	@description	Every protected route accepts either an opaque bearer token or the session cookie set at login.
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Opaque bearer token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	signup := &SignupHandler{AuthService: r.AuthService}
	login := &LoginHandler{AuthService: r.AuthService}

	// Credential endpoints get the strict profile by IP to slow brute force.
	r.Mux.Handle("POST /borrowers/signup",
		httpx.Chain(http.HandlerFunc(signup.HandleBorrower),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /investors/signup",
		httpx.Chain(http.HandlerFunc(signup.HandleInvestor),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /borrowers/login",
		httpx.Chain(http.HandlerFunc(login.HandleBorrower),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /investors/login",
		httpx.Chain(http.HandlerFunc(login.HandleInvestor),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(&LogoutHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /auth/me",
		httpx.Chain(&MeHandler{},
			RequireAuth(r.AuthService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /validate/email",
		httpx.Chain(&ValidateEmailHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerVerification() {
	h := &VerifyHandler{VerificationService: r.VerificationService}

	r.Mux.Handle("POST /auth/verify/request",
		httpx.Chain(http.HandlerFunc(h.HandleRequest),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/verify/confirm",
		httpx.Chain(http.HandlerFunc(h.HandleConfirm),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerPools() {
	h := &PoolsHandler{PoolService: r.PoolService}
	borrower := RequireRole(r.AuthService, domain.RoleBorrower)

	r.Mux.Handle("POST /pools/create",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			borrower,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /pools",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			borrower,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /pools/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			borrower,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /pools/{id}/update",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			borrower,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /pools/{id}/delete",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			borrower,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerInvestor() {
	h := &InvestorHandler{InvestmentService: r.InvestmentService}
	investor := RequireRole(r.AuthService, domain.RoleInvestor)

	r.Mux.Handle("GET /investor/pools",
		httpx.Chain(http.HandlerFunc(h.HandleBrowse),
			investor,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /investor/pools/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDetail),
			investor,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /investor/pools/{id}/invest",
		httpx.Chain(http.HandlerFunc(h.HandleInvest),
			investor,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /investor/investments",
		httpx.Chain(http.HandlerFunc(h.HandleInvestments),
			investor,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /investor/dashboard",
		httpx.Chain(http.HandlerFunc(h.HandleDashboard),
			investor,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
