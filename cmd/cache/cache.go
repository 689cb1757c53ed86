// Package cache implements the cache subcommand for inspecting and
// maintaining the image cache.
package cache

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aurinko-app/daycal/internal/conf"
	"github.com/aurinko-app/daycal/internal/imagestore"
)

// Command creates the cache command with its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the image cache",
	}

	cmd.AddCommand(
		statsCommand(settings),
		purgeCommand(settings),
		sweepCommand(settings),
		randomCommand(settings),
	)

	return cmd
}

func openStore(settings *conf.Settings) (*imagestore.Store, error) {
	cacheDir, err := conf.GetDefaultCacheDir(settings)
	if err != nil {
		return nil, err
	}
	return imagestore.New(cacheDir)
}

func statsCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(settings)
			if err != nil {
				return err
			}

			records := store.Snapshot()
			expired := 0
			for id := range records {
				record := records[id]
				if record.IsExpired() {
					expired++
				}
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintf(w, "records\t%d\n", len(records))
			fmt.Fprintf(w, "expired\t%d\n", expired)
			return w.Flush()
		},
	}
}

func purgeCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Remove expired images from the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(settings)
			if err != nil {
				return err
			}

			removed, err := store.PurgeExpired()
			if err != nil {
				return err
			}
			fmt.Printf("removed %d expired image(s)\n", removed)
			return nil
		},
	}
}

func sweepCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run the scheduled expiry sweep until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(settings)
			if err != nil {
				return err
			}

			janitor, err := imagestore.NewJanitor(store, settings.ImageCache.PurgeSchedule)
			if err != nil {
				return fmt.Errorf("invalid purge schedule %q: %w", settings.ImageCache.PurgeSchedule, err)
			}

			janitor.Start()
			defer janitor.Stop()
			fmt.Printf("sweeping on schedule %q, press Ctrl-C to stop\n", settings.ImageCache.PurgeSchedule)

			<-cmd.Context().Done()
			return nil
		},
	}
}

func randomCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Pick a random cached image",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(settings)
			if err != nil {
				return err
			}

			record, ok := store.RandomRecord()
			if !ok {
				fmt.Println("cache is empty")
				return nil
			}
			fmt.Printf("image id:  %s\n", record.ID)
			if record.Author != "" {
				fmt.Printf("author:    %s\n", record.Author)
			}
			if record.FullURL != "" {
				fmt.Printf("url:       %s\n", record.FullURL)
			}
			return nil
		},
	}
}
