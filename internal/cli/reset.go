package cli

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/pagekeeper/internal/config"
	"github.com/mrlokans/pagekeeper/internal/localstore"
)

// ResetCommand wipes all locally stored reading data
type ResetCommand struct {
	DatabasePath string
	Force        bool
}

// NewResetCommand creates a new ResetCommand
func NewResetCommand() *ResetCommand {
	return &ResetCommand{}
}

// ParseFlags parses command line flags
func (cmd *ResetCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)

	cfg := config.NewConfig()

	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the local database file")
	fs.BoolVar(&cmd.Force, "force", false, "Skip the confirmation prompt")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s reset [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete all reading progress, bookmarks, recent books and reader\n")
		fmt.Fprintf(os.Stderr, "settings from the local database. The database file itself is kept.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	return nil
}

// Run executes the reset command
func (cmd *ResetCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	if !cmd.Force {
		fmt.Printf("⚠️  This will delete all reading data in %s\n", cmd.DatabasePath)
		fmt.Print("Type 'yes' to continue: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	store, err := localstore.Open(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open local database: %w", err)
	}
	defer store.Close()

	if err := store.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear local data: %w", err)
	}

	fmt.Println("✅ Local reading data cleared")
	return nil
}
