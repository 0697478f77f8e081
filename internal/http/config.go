package http

import (
	"github.com/shelfmark/circulation/internal/database"
	"github.com/shelfmark/circulation/internal/database/audit"
	"github.com/shelfmark/circulation/internal/database/books"
	"github.com/shelfmark/circulation/internal/database/loans"
	"github.com/shelfmark/circulation/internal/database/users"
)

// RouterConfig contains all dependencies and configuration needed to
// create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Books    *books.Repository
	Loans    *loans.Repository
	Users    *users.Repository
	Audit    *audit.Repository

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
