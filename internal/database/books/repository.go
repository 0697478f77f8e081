// Package books provides database operations for the book inventory.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.AddBook("Dune", "Frank Herbert", "978-0441172719")
package books

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shelfmark/circulation/internal/database"
	"github.com/shelfmark/circulation/internal/entities"
)

// Repository handles all book inventory database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddBook inserts a new, available book. Returns ErrInvalidInput when a
// required field is empty and ErrDuplicateISBN when the ISBN is taken.
func (r *Repository) AddBook(title, author, isbn string) (*entities.Book, error) {
	if title == "" || author == "" || isbn == "" {
		return nil, database.ErrInvalidInput
	}

	book := &entities.Book{
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		Available: true,
	}

	if err := r.db.Create(book).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, database.ErrDuplicateISBN
		}
		return nil, err
	}

	return book, nil
}

// GetBookByISBN retrieves a book by its ISBN.
func (r *Repository) GetBookByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("isbn = ?", isbn).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// BookListing is one row of the inventory view: a book joined against
// its current open loan, if any.
type BookListing struct {
	ID         uint    `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	ISBN       string  `gorm:"column:isbn" json:"isbn"`
	Available  bool    `json:"available"`
	BorrowedBy *string `gorm:"column:borrowed_by" json:"borrowed_by"`
}

// ListBooks returns every book with the name of its current borrower.
// BorrowedBy is nil for books with no open loan.
func (r *Repository) ListBooks() ([]BookListing, error) {
	var rows []BookListing
	err := r.db.Table("books").
		Select("books.id, books.title, books.author, books.isbn, books.available, users.name AS borrowed_by").
		Joins("LEFT JOIN loans ON loans.book_id = books.id AND loans.returned = ?", false).
		Joins("LEFT JOIN users ON users.id = loans.user_id").
		Order("books.id ASC").
		Scan(&rows).Error
	return rows, err
}

// CountBooks returns the total number of books in the inventory.
func (r *Repository) CountBooks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}
