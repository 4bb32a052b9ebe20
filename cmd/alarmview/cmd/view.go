package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/alarmview/foundation/core/log"
	"github.com/msto63/alarmview/internal/feed"
	"github.com/msto63/alarmview/internal/operation"
	tui "github.com/msto63/alarmview/internal/tui/viewer"
	"github.com/msto63/alarmview/internal/vehicles"
	viewmodel "github.com/msto63/alarmview/internal/viewer"
	"github.com/msto63/alarmview/pkg/command"
	"github.com/msto63/alarmview/pkg/core/config"
	"github.com/msto63/alarmview/pkg/core/logging"
)

var (
	viewVehiclesFile string
	viewStorePath    string
	viewFeedURL      string
)

var viewCmd = &cobra.Command{
	Use:     "view",
	Aliases: []string{"monitor", "tui"},
	Short:   "Startet den Einsatz-Monitor",
	Long: `Startet den Einsatz-Monitor im Terminal.

Neue Einsätze kommen über den WebSocket-Feed herein und werden in der
lokalen Datenbank gespeichert.

Tastenkuerzel:
  a / Enter   Einsatz quittieren
  ↓ / n       Älterer Einsatz
  ↑ / p       Neuerer Einsatz
  r           Neu laden
  ?           Hilfe
  q / Ctrl+C  Beenden

Die Shortkeys der Fahrzeuge markieren das Fahrzeug im aktuellen Einsatz.`,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVar(&viewVehiclesFile, "vehicles", "", "Fahrzeugkonfiguration (XML)")
	viewCmd.Flags().StringVar(&viewStorePath, "store", "", "Pfad der Einsatz-Datenbank")
	viewCmd.Flags().StringVar(&viewFeedURL, "feed-url", "", "WebSocket-URL des Einsatz-Feeds")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if viewVehiclesFile != "" {
		cfg.Viewer.VehiclesFile = viewVehiclesFile
	}
	if viewStorePath != "" {
		cfg.Store.Path = viewStorePath
	}
	if viewFeedURL != "" {
		cfg.Feed.URL = viewFeedURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// the terminal belongs to the UI, log to file only
	if cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(cfg.General.DataDir, "logs", "alarmview.log")
	}
	logger := newLogger(cfg, false)
	defer logging.Close()

	vcfg, err := loadVehicles(cfg, logger)
	if err != nil {
		logger.WarnWithErr("running without vehicle configuration", err)
		vcfg = &vehicles.Configuration{}
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	binder := command.NewBinder(command.Options{Logger: logger})
	vm, err := viewmodel.New(viewmodel.Options{
		Store:        store,
		Vehicles:     vcfg,
		Binder:       binder,
		Logger:       logger,
		StoreTimeout: cfg.Viewer.StoreTimeout.Duration,
		HistoryLimit: cfg.Viewer.HistoryLimit,
	})
	if err != nil {
		return err
	}
	defer vm.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tuiCfg := tui.Config{
		Title:     cfg.Viewer.Title,
		ViewModel: vm,
		Binder:    binder,
		Logger:    logger,
	}

	if cfg.Feed.URL != "" {
		ops, status := startFeed(ctx, cfg.Feed, logger)
		tuiCfg.Operations = ops
		tuiCfg.FeedStatus = status
		tuiCfg.FeedEnabled = true
	}

	return tui.Run(ctx, tuiCfg)
}

// startFeed runs the feed client until ctx is done and hands its
// operations and connection changes to the UI loop.
func startFeed(ctx context.Context, cfg config.FeedConfig, logger *mdwlog.Logger) (<-chan *operation.Operation, <-chan tui.FeedStatus) {
	ops := make(chan *operation.Operation, 16)
	status := make(chan tui.FeedStatus, 4)

	client := feed.NewClient(feed.Config{
		URL:               cfg.URL,
		ReconnectInterval: cfg.ReconnectInterval.Duration,
		HandshakeTimeout:  cfg.HandshakeTimeout.Duration,
		Logger:            logger,
		OnStatus: func(connected bool, err error) {
			select {
			case status <- tui.FeedStatus{Connected: connected, Err: err}:
			default:
				logger.Debug("feed status dropped", mdwlog.Fields{"connected": connected})
			}
		},
	})

	go func() {
		defer close(ops)
		defer close(status)
		if err := client.Run(ctx, func(op *operation.Operation) {
			select {
			case ops <- op:
			case <-ctx.Done():
			}
		}); err != nil {
			logger.ErrorWithErr("feed stopped", err)
		}
	}()

	return ops, status
}
