package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/askcorpus/askcorpus-go/internal/adapters/filewatcher"
	"github.com/askcorpus/askcorpus-go/internal/domain/ports"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a folder and ingest PDFs dropped into it",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	watcher, err := filewatcher.NewFSNotifyWatcher([]string{".pdf"})
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events, err := watcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	log.Printf("[INFO] watching %s for PDFs", dir)
	for event := range events {
		if event.Operation == ports.FileDeleted {
			continue
		}

		result, err := a.ingest.IngestPDF(ctx, event.Path)
		if err != nil {
			log.Printf("[ERROR] ingesting %s: %v", event.Path, err)
			continue
		}
		if !result.OK {
			log.Printf("[ERROR] %s", result.Message)
			continue
		}
		log.Printf("[INFO] %s (%d chunks)", result.Message, result.ChunksAdded)
	}
	return nil
}
