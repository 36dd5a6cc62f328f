package main

import (
	"context"
	"flag"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-wayfinder/pkg/config"
	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
	"github.com/dd0wney/cluso-wayfinder/pkg/overlay"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML or JSON config file")
	accessible := flag.Bool("accessible", false, "Route over elevators only")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *accessible {
		cfg.Facility.Accessibility = true
	}

	// Logs are discarded while the UI owns the terminal.
	logger := logging.NewJSONLogger(io.Discard, logging.ErrorLevel)

	ctx := context.Background()
	nav, err := cfg.NewNavigator(ctx, navigation.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to load facility: %v", err)
	}

	st, err := cfg.OpenStore(ctx, logger)
	if err != nil {
		log.Fatalf("Failed to open restriction store: %v", err)
	}
	defer st.Close()

	manager := overlay.NewManager(nav, st, overlay.WithLogger(logger))
	if _, err := manager.Restore(ctx); err != nil {
		log.Fatalf("Failed to restore restrictions: %v", err)
	}

	p := tea.NewProgram(initialModel(nav, manager, cfg.Assistant.DefaultStart), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
