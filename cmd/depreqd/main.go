// Command depreqd runs a small demonstration API built on depreq: a query
// route reading a query and a path parameter, a singleton counter provider
// shared across requests, and a detached-command route that flushes its
// response before finishing work in the background.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/depreq/depreq"
	"github.com/depreq/depreq/extensions"
)

type cli struct {
	Addr           string `help:"Address to listen on." default:":8080"`
	WorkerPoolSize int    `help:"Bound on concurrently executing synchronous providers." default:"0"`
	Verbose        bool   `help:"Enable debug-level logging." short:"v"`
}

type hitCounter struct {
	n int64
}

func (h *hitCounter) Acquire() error { return nil }
func (h *hitCounter) Release() error { return nil }

func main() {
	var c cli
	kong.Parse(&c, kong.Description("depreqd runs a small demonstration depreq API."))

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	counter := &hitCounter{}
	counterProvider := depreq.Provide(func(*depreq.ResolveContext) (*hitCounter, error) {
		return counter, nil
	}, depreq.WithProviderScope(depreq.Singleton), depreq.WithProviderName("hit-counter"))

	greeting := depreq.QueryParam[string]("name", depreq.WithDefault("world"))
	count := depreq.Use(counterProvider)

	handler := depreq.Handler2(greeting, count, func(req *depreq.Request, name string, hc *hitCounter) (any, error) {
		n := atomic.AddInt64(&hc.n, 1)
		return map[string]any{"greeting": fmt.Sprintf("hello, %s", name), "hits": n}, nil
	})

	userID := depreq.PathParam[string]("id")
	userHandler := depreq.Handler1(userID, func(req *depreq.Request, id string) (any, error) {
		return map[string]any{"id": id}, nil
	})

	reindexHandler := depreq.Handler0(func(req *depreq.Request) (any, error) {
		return depreq.Detached{
			Response: map[string]any{"status": "accepted"},
			Continue: func(ctx context.Context) {
				time.Sleep(2 * time.Second)
				logger.Info("reindex finished")
			},
		}, nil
	})

	table := depreq.NewTable().WithRedirectSlashes()
	table.Query("GET", "/hello", handler)
	table.Query("GET", "/users/{id}", userHandler)
	table.DetachedCommand("POST", "/reindex", reindexHandler)

	container := depreq.NewContainer(depreq.Config{WorkerPoolSize: c.WorkerPoolSize},
		depreq.WithExtension(extensions.NewLogging(logger)),
	)
	if err := container.Start(); err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	srv := &http.Server{
		Addr:         c.Addr,
		Handler:      &depreq.HTTPHandler{Container: container, Table: table},
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("listening", "addr", c.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-sigCh
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := container.Stop(shutdownCtx); err != nil {
		logger.Error("container shutdown error", "error", err)
	}
}
