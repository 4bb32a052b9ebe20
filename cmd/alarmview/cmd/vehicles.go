package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/alarmview/internal/vehicles"
)

var vehiclesFile string

var vehiclesCmd = &cobra.Command{
	Use:     "vehicles",
	Aliases: []string{"fahrzeuge"},
	Short:   "Fahrzeugkonfiguration anzeigen und prüfen",
}

var vehiclesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Listet die konfigurierten Fahrzeuge",
	RunE: func(cmd *cobra.Command, args []string) error {
		vcfg, err := loadVehiclesForCommand()
		if err != nil {
			printError("Fahrzeugkonfiguration konnte nicht geladen werden", err)
			return err
		}

		out := cmd.OutOrStdout()
		if len(vcfg.MustContainAbbreviations) > 0 {
			fmt.Fprintf(out, "Filter: %v\n\n", vcfg.MustContainAbbreviations)
		}
		fmt.Fprintf(out, "%-12s %-24s %-10s %s\n", "KENNUNG", "NAME", "TASTE", "BILD")
		for _, v := range vcfg.Vehicles {
			fmt.Fprintf(out, "%-12s %-24s %-10s %s\n", v.Identifier, v.DisplayName(), v.Shortkey, v.Image)
		}
		fmt.Fprintf(out, "\n%d Fahrzeug(e)\n", len(vcfg.Vehicles))
		return nil
	},
}

var vehiclesMatchCmd = &cobra.Command{
	Use:   "match <einheit>...",
	Short: "Prüft, welchem Fahrzeug eine angeforderte Einheit entspricht",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vcfg, err := loadVehiclesForCommand()
		if err != nil {
			printError("Fahrzeugkonfiguration konnte nicht geladen werden", err)
			return err
		}

		out := cmd.OutOrStdout()
		for _, name := range args {
			switch v := vcfg.Match(name); {
			case !vcfg.Accepts(name):
				fmt.Fprintf(out, "%s: fremde Einheit\n", name)
			case v == nil:
				fmt.Fprintf(out, "%s: kein Fahrzeug\n", name)
			default:
				fmt.Fprintf(out, "%s: %s (%s)\n", name, v.DisplayName(), v.Identifier)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vehiclesCmd)
	vehiclesCmd.AddCommand(vehiclesListCmd)
	vehiclesCmd.AddCommand(vehiclesMatchCmd)

	vehiclesCmd.PersistentFlags().StringVar(&vehiclesFile, "file", "", "Fahrzeugkonfiguration (XML)")
}

func loadVehiclesForCommand() (*vehicles.Configuration, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if vehiclesFile != "" {
		cfg.Viewer.VehiclesFile = vehiclesFile
	}
	logger := newLogger(cfg, verbose)
	return loadVehicles(cfg, logger.WithField("command", "vehicles"))
}
