// Package loans implements the loan lifecycle: creating a loan flips
// the book to unavailable, returning it flips the book back. Each book
// is either Available (zero open loans) or OnLoan (exactly one), and
// both states are written in a single transaction so no reader observes
// a book marked available with an open loan, or the reverse.
package loans

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shelfmark/circulation/internal/config"
	"github.com/shelfmark/circulation/internal/database"
	"github.com/shelfmark/circulation/internal/database/users"
	"github.com/shelfmark/circulation/internal/entities"
)

// Repository handles loan lifecycle database operations.
type Repository struct {
	db         *gorm.DB
	users      *users.Repository
	loanPeriod time.Duration
}

// NewRepository creates a new loans repository. loanPeriodDays controls
// how far in the future due dates are set; values <= 0 fall back to the
// default period.
func NewRepository(db *gorm.DB, usersRepo *users.Repository, loanPeriodDays int) *Repository {
	if loanPeriodDays <= 0 {
		loanPeriodDays = config.DefaultLoanPeriodDays
	}
	return &Repository{
		db:         db,
		users:      usersRepo,
		loanPeriod: time.Duration(loanPeriodDays) * 24 * time.Hour,
	}
}

// BeginLoan loans the book with the given ISBN to the named borrower,
// creating the borrower if needed. The borrower row is committed before
// the book checks run and survives a BookNotFound or BookUnavailable
// failure. The loan insert and the availability flip share one
// transaction; the conditional update guards against a concurrent loan
// of the same book, so the loser fails with ErrBookUnavailable.
func (r *Repository) BeginLoan(userName, isbn string) (*entities.Loan, error) {
	if userName == "" || isbn == "" {
		return nil, database.ErrInvalidInput
	}

	user, err := r.users.FindOrCreateByName(userName)
	if err != nil {
		return nil, err
	}

	loan := &entities.Loan{UserID: user.ID}
	err = r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.Where("isbn = ?", isbn).First(&book).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return database.ErrBookNotFound
			}
			return err
		}
		if !book.Available {
			return database.ErrBookUnavailable
		}

		now := time.Now()
		loan.BookID = book.ID
		loan.LoanDate = now
		loan.ReturnDate = now.Add(r.loanPeriod)
		loan.Returned = false
		if err := tx.Create(loan).Error; err != nil {
			return err
		}

		res := tx.Model(&entities.Book{}).
			Where("id = ? AND available = ?", book.ID, true).
			Update("available", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return database.ErrBookUnavailable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return loan, nil
}

// EndLoan marks every open loan for the book returned and makes the
// book available again, as one transaction. Calling it on a book with
// no open loan is a safe no-op: zero loans are closed, availability is
// still set, and no error is returned. The count of closed loans is
// reported to the caller.
func (r *Repository) EndLoan(isbn string) (int64, error) {
	if isbn == "" {
		return 0, database.ErrInvalidInput
	}

	var closed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.Where("isbn = ?", isbn).First(&book).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return database.ErrBookNotFound
			}
			return err
		}

		res := tx.Model(&entities.Loan{}).
			Where("book_id = ? AND returned = ?", book.ID, false).
			Update("returned", true)
		if res.Error != nil {
			return res.Error
		}
		closed = res.RowsAffected

		return tx.Model(&entities.Book{}).
			Where("id = ?", book.ID).
			Update("available", true).Error
	})
	if err != nil {
		return 0, err
	}

	return closed, nil
}

// ActiveLoan is one row of the open-loan view: a loan joined against
// its book and borrower.
type ActiveLoan struct {
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	ISBN       string    `gorm:"column:isbn" json:"isbn"`
	User       string    `gorm:"column:user_name" json:"user"`
	LoanDate   time.Time `json:"loan_date"`
	ReturnDate time.Time `json:"return_date"`
}

// ListActiveLoans returns every open loan with its book and borrower.
// The inner joins drop rows with dangling references, which the
// lifecycle invariants rule out in the first place.
func (r *Repository) ListActiveLoans() ([]ActiveLoan, error) {
	var rows []ActiveLoan
	err := r.db.Table("loans").
		Select("books.title, books.author, books.isbn, users.name AS user_name, loans.loan_date, loans.return_date").
		Joins("JOIN books ON books.id = loans.book_id").
		Joins("JOIN users ON users.id = loans.user_id").
		Where("loans.returned = ?", false).
		Order("loans.id ASC").
		Scan(&rows).Error
	return rows, err
}

// CountOpenLoans returns the number of loans not yet returned.
func (r *Repository) CountOpenLoans() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Loan{}).Where("returned = ?", false).Count(&count).Error
	return count, err
}

// Mismatch is a book whose availability flag disagrees with its open
// loan count.
type Mismatch struct {
	BookID    uint   `gorm:"column:book_id" json:"book_id"`
	ISBN      string `gorm:"column:isbn" json:"isbn"`
	Available bool   `json:"available"`
	OpenLoans int64  `gorm:"column:open_loans" json:"open_loans"`
}

// FindAvailabilityMismatches reports books violating the availability
// invariant: available with an open loan, or unavailable with none.
// An empty result is the expected state between completed operations.
func (r *Repository) FindAvailabilityMismatches() ([]Mismatch, error) {
	var rows []Mismatch
	err := r.db.Table("books").
		Select("books.id AS book_id, books.isbn, books.available, COUNT(loans.id) AS open_loans").
		Joins("LEFT JOIN loans ON loans.book_id = books.id AND loans.returned = ?", false).
		Group("books.id").
		Having("(books.available = ? AND COUNT(loans.id) > 0) OR (books.available = ? AND COUNT(loans.id) = 0)", true, false).
		Scan(&rows).Error
	return rows, err
}
