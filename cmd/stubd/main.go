package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/d10sys/d10admin/internal/config"
	"github.com/d10sys/d10admin/internal/stub"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	router := stub.NewRouter(stub.NewStore())

	port := fmt.Sprintf(":%d", cfg.Stub.Port)
	slog.Info("starting stub backend", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
