package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/alarmview/foundation/core/log"
	"github.com/msto63/alarmview/internal/operation"
)

var (
	operationsStorePath string
	operationsLimit     int
)

var operationsCmd = &cobra.Command{
	Use:     "operations",
	Aliases: []string{"einsaetze"},
	Short:   "Gespeicherte Einsätze verwalten",
}

var operationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Listet die letzten Einsätze",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, store *operation.SQLiteStore, _ *mdwlog.Logger) error {
			ops, err := store.ListRecent(ctx, operationsLimit)
			if err != nil {
				printError("Einsätze konnten nicht gelesen werden", err)
				return err
			}

			out := cmd.OutOrStdout()
			if len(ops) == 0 {
				fmt.Fprintln(out, "Keine Einsätze gespeichert")
				return nil
			}
			for _, op := range ops {
				state := "offen"
				if op.IsAcknowledged() {
					state = "quittiert"
				}
				fmt.Fprintf(out, "%s  %s  %-10s %s\n", op.ID, op.Timestamp.Local().Format("02.01.2006 15:04"), state, op.Title())
			}
			return nil
		})
	},
}

var operationsAckCmd = &cobra.Command{
	Use:   "ack <id>",
	Short: "Quittiert einen Einsatz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, store *operation.SQLiteStore, _ *mdwlog.Logger) error {
			if err := store.Acknowledge(ctx, args[0], time.Now()); err != nil {
				printError("Einsatz konnte nicht quittiert werden", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Einsatz %s quittiert\n", args[0])
			return nil
		})
	},
}

var operationsImportCmd = &cobra.Command{
	Use:   "import <datei.json>",
	Short: "Importiert Einsätze aus einer JSON-Datei",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			printError("Datei konnte nicht geöffnet werden", err)
			return err
		}
		defer f.Close()

		ops, err := operation.Decode(f)
		if err != nil {
			printError("Datei konnte nicht gelesen werden", err)
			return err
		}

		return withStore(func(ctx context.Context, store *operation.SQLiteStore, logger *mdwlog.Logger) error {
			for _, op := range ops {
				if err := store.Save(ctx, op); err != nil {
					printError("Einsatz konnte nicht gespeichert werden", err)
					return err
				}
				logger.Debug("operation imported", mdwlog.Fields{"id": op.ID, "number": op.Number})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d Einsatz/Einsätze importiert\n", len(ops))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(operationsCmd)
	operationsCmd.AddCommand(operationsListCmd)
	operationsCmd.AddCommand(operationsAckCmd)
	operationsCmd.AddCommand(operationsImportCmd)

	operationsCmd.PersistentFlags().StringVar(&operationsStorePath, "store", "", "Pfad der Einsatz-Datenbank")
	operationsListCmd.Flags().IntVarP(&operationsLimit, "limit", "n", 20, "Maximale Anzahl")
}

// withStore opens the configured store for the duration of fn
func withStore(fn func(ctx context.Context, store *operation.SQLiteStore, logger *mdwlog.Logger) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if operationsStorePath != "" {
		cfg.Store.Path = operationsStorePath
	}

	logger := newLogger(cfg, verbose).WithField("command", "operations")
	store, err := openStore(cfg, logger)
	if err != nil {
		printError("Datenbank konnte nicht geöffnet werden", err)
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Viewer.StoreTimeout.Duration)
	defer cancel()
	return fn(ctx, store, logger)
}
