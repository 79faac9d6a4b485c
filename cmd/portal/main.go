package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
	"github.com/dd0wney/cluso-portal/pkg/config"
	"github.com/dd0wney/cluso-portal/pkg/effects"
	"github.com/dd0wney/cluso-portal/pkg/identity"
	"github.com/dd0wney/cluso-portal/pkg/interceptor"
	"github.com/dd0wney/cluso-portal/pkg/logging"
	"github.com/dd0wney/cluso-portal/pkg/metrics"
	"github.com/dd0wney/cluso-portal/pkg/router"
	"github.com/dd0wney/cluso-portal/pkg/tokenstore"
)

func main() {
	configPath := flag.String("config", "", "Path to portal config file (YAML)")
	apiURL := flag.String("api", "", "Identity API base URL (disables the mock provider)")
	dataDir := flag.String("data-dir", "", "Override the session data directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
		cfg.API.Mock = false
	}
	if *dataDir != "" {
		cfg.Session.DataDir = *dataDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := logging.NewDefaultLogger()
	logger.SetLevel(logging.ParseLevel(cfg.Logging.Level))
	reg := metrics.DefaultRegistry()

	tokens, err := tokenstore.NewStore(cfg.Session.DataDir)
	if err != nil {
		log.Fatalf("Failed to open token store: %v", err)
	}

	store := authstate.NewStore(logger)
	rt := router.New(router.DefaultRoutes(store), logger, reg)

	var svc identity.Service
	if cfg.API.Mock {
		svc = identity.NewMockService(time.Duration(cfg.API.MockLatencyMillis) * time.Millisecond)
	} else {
		transport := interceptor.NewTransport(nil, tokens, store, rt, logger, reg)
		httpClient := &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		}
		svc = identity.NewClient(cfg.API.BaseURL, httpClient)
	}

	eff := effects.New(store, svc, tokens, rt, logger, reg)
	eff.Start()
	defer eff.Stop()

	events := make(chan tea.Msg, 128)
	storeSub := store.Subscribe(func(state authstate.State) {
		select {
		case events <- sessionMsg{state: state}:
		default:
		}
	})
	defer storeSub.Unsubscribe()
	navSub := rt.OnNavigate(func(nav router.Navigation) {
		select {
		case events <- navMsg{nav: nav}:
		default:
		}
	})
	defer navSub.Unsubscribe()

	// Restore a persisted session before the first frame renders.
	store.Dispatch(authstate.CheckAuthStatus{})

	m := newModel(store, rt, svc, events)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
