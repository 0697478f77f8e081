// Package cli implements the command line interface for administrative
// operations that run outside the HTTP server.
package cli

import (
	"errors"
	"flag"
	"fmt"

	"github.com/shelfmark/circulation/internal/config"
	"github.com/shelfmark/circulation/internal/database"
	"github.com/shelfmark/circulation/internal/database/books"
)

// SeedCommand inserts a small sample inventory, for demos and local
// development.
type SeedCommand struct {
	fs     *flag.FlagSet
	dbPath string
}

type seedBook struct {
	title  string
	author string
	isbn   string
}

var sampleInventory = []seedBook{
	{"The Left Hand of Darkness", "Ursula K. Le Guin", "978-0441478125"},
	{"Dune", "Frank Herbert", "978-0441172719"},
	{"A Wizard of Earthsea", "Ursula K. Le Guin", "978-0547773742"},
	{"Snow Crash", "Neal Stephenson", "978-0553380958"},
	{"The Dispossessed", "Ursula K. Le Guin", "978-0061054884"},
}

// NewSeedCommand creates the seed command.
func NewSeedCommand() *SeedCommand {
	cmd := &SeedCommand{
		fs: flag.NewFlagSet("seed", flag.ContinueOnError),
	}
	cmd.fs.StringVar(&cmd.dbPath, "db", config.DefaultDatabasePath, "Path to the circulation database")
	return cmd
}

// ParseFlags parses command line arguments.
func (cmd *SeedCommand) ParseFlags(args []string) error {
	return cmd.fs.Parse(args)
}

// Run seeds the database with the sample inventory. Books whose ISBN is
// already present are skipped.
func (cmd *SeedCommand) Run() error {
	db, err := database.NewDatabase(cmd.dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	repo := books.NewRepository(db.DB)

	added, skipped := 0, 0
	for _, b := range sampleInventory {
		_, err := repo.AddBook(b.title, b.author, b.isbn)
		switch {
		case err == nil:
			added++
		case errors.Is(err, database.ErrDuplicateISBN):
			skipped++
		default:
			return fmt.Errorf("seed %q: %w", b.title, err)
		}
	}

	fmt.Printf("Seeded %d book(s), skipped %d already present\n", added, skipped)
	return nil
}
