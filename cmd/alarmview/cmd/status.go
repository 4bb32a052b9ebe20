package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/alarmview/internal/vehicles"
	"github.com/msto63/alarmview/pkg/core/health"
	"github.com/msto63/alarmview/pkg/core/version"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prüft Datenbank, Fahrzeugkonfiguration und Feed",
	Long: `Zeigt den Zustand der Komponenten des Einsatz-Monitors an.

Geprüft werden die Einsatz-Datenbank, die Fahrzeugkonfiguration und,
falls konfiguriert, die Erreichbarkeit des WebSocket-Feeds.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("Konfiguration ungültig", err)
		return err
	}
	logger := newLogger(cfg, verbose).WithField("command", "status")

	store, err := openStore(cfg, logger)
	if err != nil {
		printError("Datenbank konnte nicht geöffnet werden", err)
		return err
	}
	defer store.Close()

	loader := vehicles.NewLoader(vehicles.Options{BaseDir: cfg.Viewer.BaseDir, Logger: logger})
	vehiclesPath := cfg.Viewer.VehiclesFile
	if vehiclesPath == "" {
		vehiclesPath = loader.DefaultPath()
	}

	registry := health.NewRegistry(cfg.General.Name, version.Application)
	registry.Register(health.StoreCheck("Datenbank", store))
	registry.Register(health.ConfigCheck("Fahrzeuge", vehiclesPath, func(path string) error {
		_, err := loader.Load(path)
		return err
	}))
	if cfg.Feed.URL != "" {
		registry.Register(health.WebSocketCheck("Feed", cfg.Feed.URL, cfg.Feed.HandshakeTimeout.Duration))
	}

	report := registry.CheckWithTimeout(cfg.Feed.HandshakeTimeout.Duration + cfg.Viewer.StoreTimeout.Duration)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s v%s\n", report.Service, report.Version)
	fmt.Fprintln(out, "==================")
	for _, check := range report.Checks {
		icon := "[+]"
		if check.Status != health.StatusHealthy {
			icon = "[-]"
		}
		fmt.Fprintf(out, "  %s %-12s %s (%v)\n", icon, check.Name, check.Message, check.Duration.Round(time.Millisecond))
	}
	if cfg.Feed.URL == "" {
		fmt.Fprintln(out, "  [ ] Feed         nicht konfiguriert")
	}
	fmt.Fprintln(out)

	if report.Status != health.StatusHealthy {
		fmt.Fprintln(out, "Einige Komponenten sind nicht bereit.")
		return fmt.Errorf("status %s", report.Status)
	}
	fmt.Fprintln(out, "Alle Komponenten sind bereit.")
	return nil
}
