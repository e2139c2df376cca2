package main

import (
	"net/http"
	"os"
	"time"

	"soul-portrait/internal/platform/logger"
	"soul-portrait/internal/router"
)

func main() {
	log := logger.NewFromEnv()
	defer func() { _ = log.Sync() }()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{Log: log})

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		// la generación puede tardar varios minutos (poll + retries)
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Minute,
	}

	log.Infow("starting server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalw("server error", "err", err)
	}
}
