package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aurinko-app/daycal/cmd/cache"
	"github.com/aurinko-app/daycal/cmd/daylight"
	"github.com/aurinko-app/daycal/cmd/resolve"
	"github.com/aurinko-app/daycal/cmd/sun"
	"github.com/aurinko-app/daycal/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "daycal",
		Short: "Daycal CLI",
		Long:  `Solar event calculation, daylight color periods and event image caching.`,
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		sun.Command(settings),
		daylight.Command(settings),
		resolve.Command(settings),
		cache.Command(settings),
	}

	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Command-line arguments take precedence over the config file.
		if err := viper.Unmarshal(settings); err != nil {
			return fmt.Errorf("error syncing flags into settings: %w", err)
		}
		return conf.ValidateSettings(settings)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().Float64Var(&settings.Astro.Latitude, "latitude", viper.GetFloat64("astro.latitude"), "Observer latitude in degrees")
	rootCmd.PersistentFlags().Float64Var(&settings.Astro.Longitude, "longitude", viper.GetFloat64("astro.longitude"), "Observer longitude in degrees")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		panic(fmt.Sprintf("error binding debug flag: %v", err))
	}
	if err := viper.BindPFlag("astro.latitude", rootCmd.PersistentFlags().Lookup("latitude")); err != nil {
		panic(fmt.Sprintf("error binding latitude flag: %v", err))
	}
	if err := viper.BindPFlag("astro.longitude", rootCmd.PersistentFlags().Lookup("longitude")); err != nil {
		panic(fmt.Sprintf("error binding longitude flag: %v", err))
	}
}
