package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/alarmview/foundation/core/log"
	"github.com/msto63/alarmview/internal/operation"
	"github.com/msto63/alarmview/internal/vehicles"
	"github.com/msto63/alarmview/pkg/core/config"
	"github.com/msto63/alarmview/pkg/core/logging"
)

var (
	cfgFile string
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "alarmview",
	Short: "alarmview - Einsatz-Monitor für die Feuerwehr",
	Long: `alarmview zeigt eingehende Einsätze der Leitstelle im Terminal an.

Angeforderte Einheiten werden mit den eigenen Fahrzeugen aus der
Fahrzeugkonfiguration abgeglichen und hervorgehoben.

Befehle:
  view        - Einsatz-Monitor starten
  vehicles    - Fahrzeugkonfiguration anzeigen und prüfen
  operations  - Gespeicherte Einsätze verwalten
  status      - Komponenten prüfen
  version     - Version anzeigen`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: ./configs/alarmview.toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Datei mit Umgebungsvariablen")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
}

// loadConfig reads the .env file, then the configuration file
func loadConfig() (*config.Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("load %s: %w", envFile, err)
			}
		}
	}

	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, cfg.Validate()
}

// newLogger creates the process logger. console is false for the TUI so
// that records go to the log file only.
func newLogger(cfg *config.Config, console bool) *mdwlog.Logger {
	logger := logging.NewLogger(logging.FromConfig(cfg.General.Name, cfg.Logging, console))
	mdwlog.SetDefault(logger)
	return logger
}

func openStore(cfg *config.Config, logger *mdwlog.Logger) (*operation.SQLiteStore, error) {
	return operation.NewSQLiteStore(operation.SQLiteConfig{
		Path:   cfg.Store.Path,
		Logger: logger,
	})
}

func loadVehicles(cfg *config.Config, logger *mdwlog.Logger) (*vehicles.Configuration, error) {
	loader := vehicles.NewLoader(vehicles.Options{
		BaseDir: cfg.Viewer.BaseDir,
		Logger:  logger,
	})
	if cfg.Viewer.VehiclesFile == "" {
		return loader.LoadDefault()
	}
	return loader.Load(cfg.Viewer.VehiclesFile)
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Fehler: %s: %v\n", msg, err)
}
