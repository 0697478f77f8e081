package http

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/shelfmark/circulation/internal/database/books"
	"github.com/shelfmark/circulation/internal/database/loans"
	"github.com/shelfmark/circulation/internal/database/users"
)

// statsStore aggregates the per-repository counters for the stats and
// landing-page controllers.
type statsStore struct {
	books *books.Repository
	loans *loans.Repository
	users *users.Repository
}

func (s statsStore) CountBooks() (int64, error)     { return s.books.CountBooks() }
func (s statsStore) CountOpenLoans() (int64, error) { return s.loans.CountOpenLoans() }
func (s statsStore) CountUsers() (int64, error)     { return s.users.CountUsers() }

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Load HTML templates for the landing page
	if cfg.TemplatesPath != "" {
		tmpl := template.Must(template.New("").ParseGlob(cfg.TemplatesPath + "/*.html"))
		router.SetHTMLTemplate(tmpl)
	}
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Create controllers with appropriate interfaces
	var auditor AuditLogger
	if cfg.Audit != nil {
		auditor = cfg.Audit
	}
	stats := statsStore{books: cfg.Books, loans: cfg.Loans, users: cfg.Users}

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Books, auditor)
	loansController := NewLoansController(cfg.Loans, auditor)
	statsController := NewStatsController(stats)
	uiController := NewUIController(stats)

	// Landing page
	if cfg.TemplatesPath != "" {
		router.GET("/", uiController.IndexPage)
	}

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Circulation endpoints
	router.GET("/books", booksController.ListBooks)
	router.GET("/loans", loansController.ListActiveLoans)
	router.POST("/add_book", booksController.AddBook)
	router.POST("/loan_book", loansController.LoanBook)
	router.POST("/return_book", loansController.ReturnBook)

	// Stats endpoint
	router.GET("/api/stats", statsController.GetStats)

	// Audit trail
	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		router.GET("/api/audit/events", auditController.GetEvents)
	}

	return router
}
