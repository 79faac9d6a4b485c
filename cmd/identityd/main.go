package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
	"github.com/dd0wney/cluso-portal/pkg/config"
	"github.com/dd0wney/cluso-portal/pkg/identityserver"
	"github.com/dd0wney/cluso-portal/pkg/logging"
	"github.com/dd0wney/cluso-portal/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	listenAddr := flag.String("listen", "", "Override the listen address")
	dataDir := flag.String("data", "", "Override the data directory")
	seed := flag.Bool("seed", false, "Seed development accounts on startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *listenAddr != "" {
		cfg.Identity.ListenAddr = *listenAddr
	}
	if *dataDir != "" {
		cfg.Identity.DataDir = *dataDir
	}
	if cfg.Identity.JWTSecret == "" {
		cfg.Identity.JWTSecret = os.Getenv("IDENTITYD_JWT_SECRET")
	}
	if err := cfg.ValidateIdentity(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := logging.NewDefaultLogger()
	logger.SetLevel(logging.ParseLevel(cfg.Logging.Level))
	reg := metrics.DefaultRegistry()

	users := identityserver.NewUserStore()
	if err := users.LoadUsers(cfg.Identity.DataDir); err != nil {
		log.Fatalf("Failed to load users: %v", err)
	}
	if *seed {
		seedAccounts(users, logger)
	}

	jwtManager, err := identityserver.NewJWTManager(
		cfg.Identity.JWTSecret,
		time.Duration(cfg.Identity.AccessTokenMinutes)*time.Minute,
		time.Duration(cfg.Identity.RefreshTokenHours)*time.Hour,
	)
	if err != nil {
		log.Fatalf("Failed to create JWT manager: %v", err)
	}

	server := identityserver.NewServer(users, jwtManager, logger, reg)

	if cfg.Identity.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
			logger.Info("metrics listening", logging.String("addr", cfg.Identity.MetricsAddr))
			if err := http.ListenAndServe(cfg.Identity.MetricsAddr, mux); err != nil {
				logger.Error("metrics server failed", logging.Error(err))
			}
		}()
	}

	// Persist users on shutdown.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		if err := users.SaveUsers(cfg.Identity.DataDir); err != nil {
			logger.Error("failed to save users", logging.Error(err))
		}
		os.Exit(0)
	}()

	logger.Info("identityd listening", logging.String("addr", cfg.Identity.ListenAddr))
	if err := http.ListenAndServe(cfg.Identity.ListenAddr, server); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// seedAccounts creates one account per role for local development. Existing
// accounts are left untouched.
func seedAccounts(users *identityserver.UserStore, logger logging.Logger) {
	seeds := []struct {
		email     string
		firstName string
		lastName  string
		role      authstate.UserRole
	}{
		{"admin@portal.dev", "Ada", "Admin", authstate.RoleAdmin},
		{"manager@portal.dev", "Mary", "Manager", authstate.RoleManager},
		{"user@portal.dev", "Uri", "User", authstate.RoleUser},
	}

	for _, s := range seeds {
		if _, err := users.GetUserByEmail(s.email); err == nil {
			continue
		}
		if _, err := users.CreateUser(s.email, "changeme1", s.firstName, s.lastName, s.role); err != nil {
			logger.Warn("failed to seed account",
				logging.String("email", s.email), logging.Error(err))
			continue
		}
		logger.Info("seeded account", logging.String("email", s.email), logging.Role(string(s.role)))
	}
}
