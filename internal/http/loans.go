package http

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfmark/circulation/internal/database/loans"
	"github.com/shelfmark/circulation/internal/entities"
)

// dateLayout is the wire format for loan and due dates.
const dateLayout = "2006-01-02"

// LoanStore is the lifecycle access the loans controller needs.
type LoanStore interface {
	BeginLoan(userName, isbn string) (*entities.Loan, error)
	EndLoan(isbn string) (int64, error)
	ListActiveLoans() ([]loans.ActiveLoan, error)
}

// AuditLogger records circulation events. A nil logger disables auditing.
type AuditLogger interface {
	LogEvent(event *entities.AuditEvent) error
}

type LoansController struct {
	store   LoanStore
	auditor AuditLogger
}

func NewLoansController(store LoanStore, auditor AuditLogger) *LoansController {
	return &LoansController{
		store:   store,
		auditor: auditor,
	}
}

type activeLoanResponse struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	ISBN       string `json:"isbn"`
	User       string `json:"user"`
	LoanDate   string `json:"loan_date"`
	ReturnDate string `json:"return_date"`
}

// ListActiveLoans returns every loan not yet returned.
func (controller *LoansController) ListActiveLoans(c *gin.Context) {
	active, err := controller.store.ListActiveLoans()
	if err != nil {
		respondInternalError(c, err, "list loans")
		return
	}

	out := make([]activeLoanResponse, 0, len(active))
	for _, loan := range active {
		out = append(out, activeLoanResponse{
			Title:      loan.Title,
			Author:     loan.Author,
			ISBN:       loan.ISBN,
			User:       loan.User,
			LoanDate:   loan.LoanDate.Format(dateLayout),
			ReturnDate: loan.ReturnDate.Format(dateLayout),
		})
	}
	c.JSON(http.StatusOK, out)
}

type loanBookRequest struct {
	UserName string `json:"user_name"`
	BookISBN string `json:"book_isbn"`
}

// LoanBook loans a book to a named borrower, creating the borrower on
// first sight of the name.
func (controller *LoansController) LoanBook(c *gin.Context) {
	var req loanBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "No data received")
		return
	}
	if req.UserName == "" || req.BookISBN == "" {
		respondBadRequest(c, "Missing name or ISBN")
		return
	}

	loan, err := controller.store.BeginLoan(req.UserName, req.BookISBN)
	if err != nil {
		respondStoreError(c, err, "loan book")
		return
	}

	controller.audit(entities.AuditEventLoanCreated,
		fmt.Sprintf("Loaned book %d to %q until %s", loan.BookID, req.UserName, loan.ReturnDate.Format(dateLayout)),
		&loan.ID)
	respondSuccess(c, "Book loaned successfully")
}

type returnBookRequest struct {
	BookISBN string `json:"book_isbn"`
}

// ReturnBook closes every open loan for the book and makes it available
// again. Returning an already-available book succeeds without effect.
func (controller *LoansController) ReturnBook(c *gin.Context) {
	var req returnBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "No data received")
		return
	}
	if req.BookISBN == "" {
		respondBadRequest(c, "Missing ISBN")
		return
	}

	closed, err := controller.store.EndLoan(req.BookISBN)
	if err != nil {
		respondStoreError(c, err, "return book")
		return
	}

	controller.audit(entities.AuditEventLoanReturned,
		fmt.Sprintf("Returned %s, closed %d loan(s)", req.BookISBN, closed),
		nil)
	respondSuccess(c, "Book returned successfully")
}

func (controller *LoansController) audit(eventType entities.AuditEventType, description string, entityID *uint) {
	if controller.auditor == nil {
		return
	}
	event := &entities.AuditEvent{
		EventType:   eventType,
		Description: description,
		EntityType:  "loan",
		EntityID:    entityID,
		Status:      entities.AuditStatusSuccess,
	}
	if err := controller.auditor.LogEvent(event); err != nil {
		log.Printf("Failed to record audit event: %v", err)
	}
}
