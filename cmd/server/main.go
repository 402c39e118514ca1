package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/pbv-society/societyhub/internal/auth"
	"github.com/pbv-society/societyhub/internal/config"
	"github.com/pbv-society/societyhub/internal/mail"
	"github.com/pbv-society/societyhub/internal/server"
	"github.com/pbv-society/societyhub/internal/service"
	"github.com/pbv-society/societyhub/internal/storage/sqlite"
	"github.com/pbv-society/societyhub/pkg/logging"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	logging.Setup()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	mailer, err := mail.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		slog.Error("Failed to initialize mailer", "error", err)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	srv := server.New(
		service.NewApprovalService(store, mailer, jwtManager, cfg.PrivilegedRole),
		service.NewAuthService(store, jwtManager),
		service.NewNotificationService(store),
		jwtManager,
	)

	// Wrap with h2c for HTTP/2 without TLS
	h2cHandler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.ListenPort)
	slog.Info("SocietyHub server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
