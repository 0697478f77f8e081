package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfmark/circulation/internal/database/books"
	"github.com/shelfmark/circulation/internal/entities"
)

// BookStore is the inventory access the books controller needs.
type BookStore interface {
	AddBook(title, author, isbn string) (*entities.Book, error)
	ListBooks() ([]books.BookListing, error)
}

type BooksController struct {
	store   BookStore
	auditor AuditLogger
}

func NewBooksController(store BookStore, auditor AuditLogger) *BooksController {
	return &BooksController{
		store:   store,
		auditor: auditor,
	}
}

// ListBooks returns the full inventory with current borrowers.
func (controller *BooksController) ListBooks(c *gin.Context) {
	listings, err := controller.store.ListBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	if listings == nil {
		listings = []books.BookListing{}
	}
	c.JSON(http.StatusOK, listings)
}

type addBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// AddBook registers a new book in the inventory.
func (controller *BooksController) AddBook(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "No data received")
		return
	}

	book, err := controller.store.AddBook(req.Title, req.Author, req.ISBN)
	if err != nil {
		respondStoreError(c, err, "add book")
		return
	}

	controller.audit(book)
	respondSuccess(c, "Book added successfully")
}

func (controller *BooksController) audit(book *entities.Book) {
	if controller.auditor == nil {
		return
	}
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventBookAdded,
		Description: "Added '" + book.Title + "' by " + book.Author,
		EntityType:  "book",
		EntityID:    &book.ID,
		Status:      entities.AuditStatusSuccess,
	}
	if err := controller.auditor.LogEvent(event); err != nil {
		log.Printf("Failed to record audit event: %v", err)
	}
}
