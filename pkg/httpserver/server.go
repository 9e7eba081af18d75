package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/hseal/pkg/logger"
)

type config struct {
	addr              string
	listener          net.Listener
	readHeaderTimeout time.Duration
	readTimeout       time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration
	shutdownTimeout   time.Duration
	maxHeaderBytes    int
	log               *slog.Logger
	stopHooks         []func() error
}

// Server runs an http.Server until its context is cancelled or the process
// receives SIGINT/SIGTERM, then shuts it down gracefully.
type Server struct {
	cfg  config
	mu   sync.Mutex
	srv  *http.Server
	once sync.Once
	err  error
}

// New returns a configured Server.
func New(opts ...Option) *Server {
	cfg := config{
		addr:              ":8080",
		readHeaderTimeout: 5 * time.Second,
		shutdownTimeout:   10 * time.Second,
		log:               slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.log = cfg.log.With(logger.Component("httpserver"))
	return &Server{cfg: cfg}
}

// Run serves handler and blocks until shutdown completes. A clean shutdown
// returns nil; listen failures are joined with ErrStart.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	srv := &http.Server{
		Addr:              s.cfg.addr,
		Handler:           handler,
		ReadHeaderTimeout: s.cfg.readHeaderTimeout,
		ReadTimeout:       s.cfg.readTimeout,
		WriteTimeout:      s.cfg.writeTimeout,
		IdleTimeout:       s.cfg.idleTimeout,
		MaxHeaderBytes:    s.cfg.maxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(s.cfg.log.Handler(), slog.LevelWarn),
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.srv = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		if s.cfg.listener != nil {
			s.cfg.log.Info("listening", slog.String("addr", s.cfg.listener.Addr().String()))
			errCh <- srv.Serve(s.cfg.listener)
			return
		}
		s.cfg.log.Info("listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-sigCtx.Done():
		s.cfg.log.Info("shutting down")
		shutdownErr := s.Shutdown(context.WithoutCancel(ctx))
		if err := ignoreClosed(<-errCh); err != nil {
			return errors.Join(ErrStart, err, shutdownErr)
		}
		return shutdownErr
	case err := <-errCh:
		shutdownErr := s.Shutdown(context.WithoutCancel(ctx))
		if err = ignoreClosed(err); err != nil {
			return errors.Join(ErrStart, err, shutdownErr)
		}
		return shutdownErr
	}
}

// Shutdown drains in-flight requests within the shutdown timeout and then
// runs the stop hooks. Only the first call does any work; later calls return
// its result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.once.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()

		var errs []error
		if srv != nil {
			ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				errs = append(errs, errors.Join(ErrShutdown, err))
			}
		}
		for _, h := range s.cfg.stopHooks {
			if err := h(); err != nil {
				s.cfg.log.Error("stop hook failed", logger.Error(err))
				errs = append(errs, err)
			}
		}
		s.err = errors.Join(errs...)
	})
	return s.err
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
