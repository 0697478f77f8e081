package entities

import "time"

// Book is a single title in the inventory. Availability is maintained by
// the loan lifecycle: it is true exactly when no open loan references
// the book.
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:512;not null" json:"title"`
	Author    string    `gorm:"size:256;not null" json:"author"`
	ISBN      string    `gorm:"uniqueIndex;size:32;not null" json:"isbn"`
	Available bool      `gorm:"default:true" json:"available"`
	CreatedAt time.Time `json:"created_at"`
}

// User is a borrower. Names are not unique; a user row is created the
// first time a name appears in a loan request and reused afterwards.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:256;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Loan records a borrowing. Once created it is immutable except for the
// one-way Returned transition. ReturnDate is the due date (loan date
// plus the configured loan period) and is never enforced.
type Loan struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	BookID     uint      `gorm:"index" json:"book_id"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	Book       Book      `gorm:"foreignKey:BookID" json:"-"`
	LoanDate   time.Time `json:"loan_date"`
	ReturnDate time.Time `json:"return_date"`
	Returned   bool      `gorm:"default:false;index" json:"returned"`
	CreatedAt  time.Time `json:"created_at"`
}
