// Package resolve implements the resolve subcommand, resolving an image
// for a single event from the command line.
package resolve

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aurinko-app/daycal/internal/conf"
	"github.com/aurinko-app/daycal/internal/fetchqueue"
	"github.com/aurinko-app/daycal/internal/imageresolver"
	"github.com/aurinko-app/daycal/internal/imagestore"
	"github.com/aurinko-app/daycal/internal/observability"
	"github.com/aurinko-app/daycal/internal/photoprovider"
)

const stopTimeout = 30 * time.Second

// Command creates the resolve command.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		title    string
		location string
		imageID  string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve an image for an event",
		Long:  `Resolve an image for an event by title and location, fetching a new one when the cache has no good match.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" && location == "" {
				return fmt.Errorf("at least one of --title and --location is required")
			}
			return runResolve(cmd, settings, imageresolver.Event{
				Title:           title,
				Location:        location,
				AssignedImageID: imageID,
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Event title")
	cmd.Flags().StringVar(&location, "location", "", "Event location")
	cmd.Flags().StringVar(&imageID, "image-id", "", "Already assigned image id, if any")

	return cmd
}

func runResolve(cmd *cobra.Command, settings *conf.Settings, event imageresolver.Event) error {
	cacheDir, err := conf.GetDefaultCacheDir(settings)
	if err != nil {
		return err
	}
	store, err := imagestore.New(cacheDir)
	if err != nil {
		return err
	}

	telemetry, err := observability.NewMetrics()
	if err != nil {
		return err
	}

	queue := fetchqueue.New(settings.ImageCache.MaxConcurrentFetches, telemetry.FetchQueue)
	defer func() {
		if err := queue.Stop(stopTimeout); err != nil {
			fmt.Printf("warning: fetch queue did not drain: %v\n", err)
		}
	}()

	provider := photoprovider.NewClient(settings.ImageCache.Provider)
	resolver := imageresolver.New(store, queue, provider, telemetry.ImageResolver)

	id, updated, err := resolver.Resolve(cmd.Context(), event)
	if err != nil {
		return err
	}
	if id == "" {
		fmt.Println("no image available, use a placeholder")
		return nil
	}

	record, _ := store.Get(id)
	fmt.Printf("image id:  %s\n", id)
	if record.Author != "" {
		fmt.Printf("author:    %s\n", record.Author)
	}
	if record.FullURL != "" {
		fmt.Printf("url:       %s\n", record.FullURL)
	}
	if updated.AssignedImageID != event.AssignedImageID {
		fmt.Printf("assigned:  %s\n", updated.AssignedImageID)
	}
	return nil
}
