// Package daylight implements the daylight subcommand, printing the day's
// daylight periods and an hourly color gradient.
package daylight

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aurinko-app/daycal/internal/conf"
	"github.com/aurinko-app/daycal/internal/daylight"
	"github.com/aurinko-app/daycal/internal/suncalc"
)

// Command creates the daylight command.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		dateStr  string
		gradient bool
		samples  int
	)

	cmd := &cobra.Command{
		Use:   "daylight",
		Short: "Print daylight periods for a day",
		Long:  `Print the day's daylight periods with their colors, optionally sampling an hourly color gradient.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now()
			if dateStr != "" {
				parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", dateStr, err)
				}
				date = parsed
			}
			if samples < 2 {
				return fmt.Errorf("samples must be at least 2, got %d", samples)
			}
			return printDaylight(settings, date, gradient, samples)
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Date to calculate for (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&gradient, "gradient", false, "Also print a sampled color gradient across the day")
	cmd.Flags().IntVar(&samples, "samples", 24, "Number of gradient samples across the day")

	return cmd
}

func printDaylight(settings *conf.Settings, date time.Time, gradient bool, samples int) error {
	observer := suncalc.GeoCoordinate{
		Latitude:  settings.Astro.Latitude,
		Longitude: settings.Astro.Longitude,
	}
	if err := observer.Validate(); err != nil {
		return err
	}
	model := daylight.NewModel(observer)

	fmt.Printf("Daylight periods for %s at %.4f, %.4f\n\n",
		date.Format("2006-01-02"), observer.Latitude, observer.Longitude)

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "PHASE\tSTART\tEND\tCOLOR")
	for _, period := range model.PeriodsForDay(date) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			period.Phase, formatHour(period.StartHour), formatHour(period.EndHour), formatColor(period.Color))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if gradient {
		fmt.Println()
		step := 24.0 / float64(samples)
		for i := 0; i < samples; i++ {
			hour := float64(i) * step
			color := model.ColorForHour(hour, date)
			fmt.Printf("%s  %s\n", formatHour(hour), formatColor(color))
		}
	}
	return nil
}

// formatHour renders a fractional hour of day as HH:MM.
func formatHour(hour float64) string {
	h := int(hour)
	m := int((hour - float64(h)) * 60)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// formatColor renders a color as a hex triplet with alpha.
func formatColor(c daylight.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x (a=%.2f)",
		int(c.R*255), int(c.G*255), int(c.B*255), c.A)
}
