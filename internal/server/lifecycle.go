// Package server hosts a running level: it starts the frame loop and its
// companion services, waits for a signal or for the level to end, then stops
// everything in reverse order and runs the shutdown hooks (autosave).
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownTimeout bounds the time given to shutdown hooks.
const DefaultShutdownTimeout = 10 * time.Second

// Service represents a long-running component that can be started and stopped.
type Service interface {
	// Start runs the service. It blocks until the service is stopped, its
	// work is done, or an error occurs.
	Start() error
	// Stop asks a running service to return from Start.
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls the underlying stop function.
func (f *FuncService) Stop() { f.StopFn() }

// Hook runs once during shutdown, after every service has stopped.
type Hook func(ctx context.Context) error

// Lifecycle manages the startup and shutdown of multiple services.
// Services are started in order and stopped in reverse order.
type Lifecycle struct {
	logger          *zap.Logger
	services        []namedService
	hooks           []namedHook
	signals         []os.Signal
	shutdownTimeout time.Duration
	mu              sync.Mutex
}

type namedService struct {
	name    string
	service Service
}

type namedHook struct {
	name string
	fn   Hook
}

// NewLifecycle creates a Lifecycle reacting to SIGINT and SIGTERM.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	if logger == nil {
		panic("server.NewLifecycle: logger must not be nil")
	}
	return &Lifecycle{
		logger:          logger,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// SetShutdownTimeout changes the time given to shutdown hooks.
//
// Precondition: d > 0.
func (l *Lifecycle) SetShutdownTimeout(d time.Duration) {
	if d <= 0 {
		panic("server.Lifecycle.SetShutdownTimeout: d must be positive")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shutdownTimeout = d
}

// Add registers a named service. Services are started in the order they are
// added.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	if name == "" || svc == nil {
		panic("server.Lifecycle.Add: name and service are required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// OnShutdown registers a hook run after the services stopped, in
// registration order.
//
// Precondition: name must be non-empty; fn must be non-nil.
func (l *Lifecycle) OnShutdown(name string, fn Hook) {
	if name == "" || fn == nil {
		panic("server.Lifecycle.OnShutdown: name and hook are required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, namedHook{name: name, fn: fn})
}

// Run starts all services and blocks until a termination signal arrives, ctx
// is cancelled, or any service returns. It then stops the services in
// reverse order and runs the shutdown hooks.
//
// Postcondition: All services are stopped when this method returns. The
// returned error joins the first service failure with any hook failures.
func (l *Lifecycle) Run(ctx context.Context) error {
	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	hooks := append([]namedHook(nil), l.hooks...)
	timeout := l.shutdownTimeout
	l.mu.Unlock()

	start := time.Now()

	errCh := make(chan error, len(services))
	returned := make(chan string, len(services))
	var finished sync.WaitGroup
	for _, ns := range services {
		finished.Add(1)
		go func() {
			defer finished.Done()
			l.logger.Info("starting service", zap.String("service", ns.name))
			svcStart := time.Now()
			if err := ns.service.Start(); err != nil {
				l.logger.Error("service failed",
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(svcStart)),
				)
				errCh <- fmt.Errorf("service %s: %w", ns.name, err)
				return
			}
			l.logger.Info("service returned", zap.String("service", ns.name), zap.Duration("uptime", time.Since(svcStart)))
			returned <- ns.name
		}()
	}
	allDone := make(chan struct{})
	go func() {
		finished.Wait()
		close(allDone)
	}()

	l.logger.Info("all services started",
		zap.Int("count", len(services)),
		zap.Duration("startup", time.Since(start)),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, l.signals...)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		l.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case runErr = <-errCh:
		l.logger.Error("service error, shutting down", zap.Error(runErr))
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
	case name := <-returned:
		l.logger.Info("service done, shutting down", zap.String("service", name))
	case <-allDone:
		l.logger.Info("no services running, shutting down")
	}

	l.shutdown(services)
	<-allDone

	hookErr := l.runHooks(hooks, timeout)

	l.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(start)))
	return errors.Join(runErr, hookErr)
}

func (l *Lifecycle) shutdown(services []namedService) {
	shutdownStart := time.Now()
	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		svcStart := time.Now()
		l.logger.Info("stopping service", zap.String("service", ns.name))
		ns.service.Stop()
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	l.logger.Info("all services stopped", zap.Duration("shutdown_elapsed", time.Since(shutdownStart)))
}

func (l *Lifecycle) runHooks(hooks []namedHook, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	var errs []error
	for _, h := range hooks {
		if err := h.fn(ctx); err != nil {
			l.logger.Error("shutdown hook failed", zap.String("hook", h.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("hook %s: %w", h.name, err))
			continue
		}
		l.logger.Info("shutdown hook done", zap.String("hook", h.name))
	}
	return errors.Join(errs...)
}
