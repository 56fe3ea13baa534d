package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/session"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	log     *logrus.Logger
	config  *config.Config
	router  *mux.Router
	store   *session.Store
	jwt     *config.JWT
	cookies *config.Cookies
}

func New(log *logrus.Logger, c *config.Config) (*App, error) {
	j, err := config.NewJWT(c.JWT)
	if err != nil {
		return nil, err
	}
	if c.JWT.Secret == "" {
		log.Warn("jwt.secret is not set, game tokens will not survive a restart")
	}

	cookies, err := config.NewCookies(c, j.TokenLifetime())
	if err != nil {
		return nil, err
	}

	store := session.NewStore(
		log,
		session.WithIdleTimeout(c.Sessions.IdleTimeout),
		session.WithMax(c.Sessions.Max),
	)

	app := &App{
		log:     log,
		config:  c,
		router:  mux.NewRouter(),
		store:   store,
		jwt:     j,
		cookies: cookies,
	}

	if err := app.loadRoutes(); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Cors(a.config.Development(), a.config.Cors.AllowedOrigins...),
		middleware.Logging(a.log),
	)
}

// Start serves until ctx is done or the listener fails, then shuts the
// server down gracefully.
func (a *App) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.config.Addr)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", a.config.Addr, err)
	}
	return a.Serve(ctx, listener)
}

func (a *App) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", listener.Addr())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return a.store.Run(gCtx, a.config.Sessions.SweepInterval)
	})

	return g.Wait()
}
