// Package sun implements the sun subcommand, printing the solar event
// table for a date and location.
package sun

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aurinko-app/daycal/internal/conf"
	"github.com/aurinko-app/daycal/internal/suncalc"
)

// Command creates the sun command for printing solar event times.
func Command(settings *conf.Settings) *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "sun",
		Short: "Print solar event times",
		Long:  `Print sunrise, sunset and twilight times for a date at the configured location.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now()
			if dateStr != "" {
				parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", dateStr, err)
				}
				date = parsed
			}
			return printSunEvents(settings, date)
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Date to calculate for (YYYY-MM-DD), defaults to today")

	return cmd
}

func printSunEvents(settings *conf.Settings, date time.Time) error {
	sc := suncalc.NewSunCalc(settings.Astro.Latitude, settings.Astro.Longitude)
	times := sc.GetSunEventTimes(date)

	fmt.Printf("Solar events for %s at %.4f, %.4f\n\n",
		date.Format("2006-01-02"), settings.Astro.Latitude, settings.Astro.Longitude)

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	for _, event := range suncalc.AllEvents() {
		fmt.Fprintf(w, "%s\t%s\n", event, formatSunTime(times.Event(event), settings.Main.TimeAs24h))
	}
	return w.Flush()
}

// formatSunTime renders a sun time, or N/A when the sun never reaches the
// event's elevation on that date.
func formatSunTime(st suncalc.SunTime, as24h bool) string {
	if !st.Valid {
		return "N/A"
	}
	if as24h {
		return st.Time.Format("15:04")
	}
	return st.Time.Format("3:04 PM")
}
