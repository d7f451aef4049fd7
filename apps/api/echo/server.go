package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/edumatch/core"
	"github.com/trezcool/edumatch/core/admin"
	"github.com/trezcool/edumatch/core/application"
	"github.com/trezcool/edumatch/core/chat"
	"github.com/trezcool/edumatch/core/opportunity"
	"github.com/trezcool/edumatch/core/profile"
	"github.com/trezcool/edumatch/core/user"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		UserSvc        user.Service
		ProfileSvc     profile.Service
		OpportunitySvc opportunity.Service
		ApplicationSvc application.Service
		ChatSvc        chat.Service
		AdminSvc       admin.Service
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		tokens   *tokenIssuer
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		tokens:   newTokenIssuer(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := s.tokens.middleware()

	registerAuthAPI(v1, jwt, s.tokens, s.deps.UserSvc, s.deps.Validate)
	registerProfileAPI(v1, jwt, s.deps.ProfileSvc, s.deps.Validate)
	registerOpportunityAPI(v1, jwt, s.deps.OpportunitySvc, s.deps.ApplicationSvc, s.deps.Validate)
	registerApplicationAPI(v1, jwt, s.deps.ApplicationSvc, s.deps.Validate)
	registerChatAPI(v1, jwt, s.deps.ChatSvc)
	registerAdminAPI(v1, jwt, s.deps.AdminSvc, s.deps.UserSvc)

	registerViews(s.app.Group("/views"), s.tokens)
}

// Start listens in the background. Listen errors are sent to Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
			s.errors <- err
		}
	}()
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown asks the app to shut down as if it received SIGTERM.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// GenerateToken signs a token for usr.
func (s *Server) GenerateToken(usr user.User) (string, error) {
	return s.tokens.tokenFor(usr)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to EduMatch API!")
}
