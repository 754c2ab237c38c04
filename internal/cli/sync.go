package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/pagekeeper/internal/config"
	"github.com/mrlokans/pagekeeper/internal/localstore"
	"github.com/mrlokans/pagekeeper/internal/syncer"
)

// SyncCommand reconciles local reading progress with the sync server
type SyncCommand struct {
	DatabasePath string
	ServerURL    string
	Token        string
	PullOnly     bool
	Verbose      bool
}

// NewSyncCommand creates a new SyncCommand
func NewSyncCommand() *SyncCommand {
	return &SyncCommand{}
}

// ParseFlags parses command line flags
func (cmd *SyncCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)

	cfg := config.NewConfig()

	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the local database file")
	fs.StringVar(&cmd.ServerURL, "server", cfg.Sync.ServerURL, "Base URL of the sync server")
	fs.StringVar(&cmd.Token, "token", cfg.Sync.Token, "Bearer token for the sync server")
	fs.BoolVar(&cmd.PullOnly, "pull-only", false, "Only pull remote progress (skip pushing local records)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sync [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reconcile local reading progress with the sync server.\n\n")
		fmt.Fprintf(os.Stderr, "This command:\n")
		fmt.Fprintf(os.Stderr, "  1. Pulls the remote progress set and merges it (newest timestamp wins)\n")
		fmt.Fprintf(os.Stderr, "  2. Pushes the full local progress set back to the server\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s sync\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sync -server https://sync.example.com -token $PAGEKEEPER_TOKEN\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sync -pull-only\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	return nil
}

// Run executes the sync command
func (cmd *SyncCommand) Run() error {
	fmt.Println("🔄 PageKeeper Sync")
	fmt.Println("==================")

	if cmd.ServerURL == "" {
		return fmt.Errorf("no sync server configured (use -server or set sync.server_url)")
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	store, err := localstore.Open(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open local database: %w", err)
	}
	defer store.Close()

	fmt.Printf("📁 Database: %s\n", cmd.DatabasePath)
	fmt.Printf("🌐 Server: %s\n", cmd.ServerURL)

	client := syncer.NewClient(cmd.ServerURL, cmd.Token)
	reconciler := syncer.NewReconciler(store, client, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Println("\n⬇️  Pulling remote progress...")
	adopted, err := reconciler.PullAndMerge(ctx)
	if err != nil {
		return fmt.Errorf("failed to merge remote progress: %w", err)
	}
	fmt.Printf("📥 Adopted %d remote record(s)\n", adopted)

	if cmd.PullOnly {
		fmt.Println("\n⏭️  Skipping push (pull-only mode)")
		fmt.Println("\n✅ Sync complete!")
		return nil
	}

	fmt.Println("\n⬆️  Pushing local progress...")
	pushed := reconciler.PushAll(ctx)
	fmt.Printf("📤 Pushed %d record(s)\n", pushed)

	if cmd.Verbose {
		all, err := store.GetAllProgress()
		if err == nil {
			fmt.Println("\n=== Local progress after sync ===")
			for bookID, record := range all {
				fmt.Printf("  - %s: page %d/%d (%d%%)\n",
					bookID, record.CurrentPage, record.TotalPages, record.Percentage)
			}
		}
	}

	fmt.Println("\n✅ Sync complete!")
	return nil
}
