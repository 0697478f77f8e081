package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/circulation/internal/database"
	"github.com/shelfmark/circulation/internal/database/books"
	"github.com/shelfmark/circulation/internal/database/loans"
	"github.com/shelfmark/circulation/internal/database/users"
)

type loansTestEnv struct {
	db     *database.Database
	books  *books.Repository
	loans  *loans.Repository
	router *gin.Engine
}

func setupLoansTest(t *testing.T) (*loansTestEnv, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_loans_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	booksRepo := books.NewRepository(db.DB)
	usersRepo := users.NewRepository(db.DB)
	loansRepo := loans.NewRepository(db.DB, usersRepo, 14)

	controller := NewLoansController(loansRepo, nil)
	router := gin.New()
	router.GET("/loans", controller.ListActiveLoans)
	router.POST("/loan_book", controller.LoanBook)
	router.POST("/return_book", controller.ReturnBook)

	env := &loansTestEnv{
		db:     db,
		books:  booksRepo,
		loans:  loansRepo,
		router: router,
	}
	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return env, cleanup
}

func (env *loansTestEnv) addBook(t *testing.T, isbn string) {
	t.Helper()
	_, err := env.books.AddBook("Dune", "Frank Herbert", isbn)
	require.NoError(t, err)
}

func TestLoansController_LoanBook(t *testing.T) {
	t.Run("loans an available book", func(t *testing.T) {
		env, cleanup := setupLoansTest(t)
		defer cleanup()
		env.addBook(t, "978-1")

		w := postJSON(t, env.router, "/loan_book", `{"user_name": "Alice", "book_isbn": "978-1"}`)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp SuccessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Book loaned successfully", resp.Message)

		book, err := env.books.GetBookByISBN("978-1")
		require.NoError(t, err)
		assert.False(t, book.Available)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		env, cleanup := setupLoansTest(t)
		defer cleanup()

		w := postJSON(t, env.router, "/loan_book", `{"user_name": "Alice"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Missing name or ISBN", resp.Error)
	})

	t.Run("returns 404 for unknown isbn", func(t *testing.T) {
		env, cleanup := setupLoansTest(t)
		defer cleanup()

		w := postJSON(t, env.router, "/loan_book", `{"user_name": "Alice", "book_isbn": "missing"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects a book already on loan", func(t *testing.T) {
		env, cleanup := setupLoansTest(t)
		defer cleanup()
		env.addBook(t, "978-1")

		w := postJSON(t, env.router, "/loan_book", `{"user_name": "Alice", "book_isbn": "978-1"}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = postJSON(t, env.router, "/loan_book", `{"user_name": "Bob", "book_isbn": "978-1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Book not available", resp.Error)
	})
}

func TestLoansController_ListActiveLoans(t *testing.T) {
	t.Run("returns empty list with no open loans", func(t *testing.T) {
		env, cleanup := setupLoansTest(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/loans", nil)
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})

	t.Run("lists open loans with formatted dates", func(t *testing.T) {
		env, cleanup := setupLoansTest(t)
		defer cleanup()
		env.addBook(t, "978-1")

		w := postJSON(t, env.router, "/loan_book", `{"user_name": "Alice", "book_isbn": "978-1"}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/loans", nil)
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var active []activeLoanResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &active))
		require.Len(t, active, 1)
		assert.Equal(t, "Dune", active[0].Title)
		assert.Equal(t, "Alice", active[0].User)

		today := time.Now()
		assert.Equal(t, today.Format(dateLayout), active[0].LoanDate)
		assert.Equal(t, today.Add(14*24*time.Hour).Format(dateLayout), active[0].ReturnDate)
	})

	t.Run("excludes returned loans", func(t *testing.T) {
		env, cleanup := setupLoansTest(t)
		defer cleanup()
		env.addBook(t, "978-1")

		w := postJSON(t, env.router, "/loan_book", `{"user_name": "Alice", "book_isbn": "978-1"}`)
		require.Equal(t, http.StatusOK, w.Code)
		w = postJSON(t, env.router, "/return_book", `{"book_isbn": "978-1"}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/loans", nil)
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})
}

func TestLoansController_ReturnBook(t *testing.T) {
	t.Run("returns a loaned book", func(t *testing.T) {
		env, cleanup := setupLoansTest(t)
		defer cleanup()
		env.addBook(t, "978-1")

		w := postJSON(t, env.router, "/loan_book", `{"user_name": "Alice", "book_isbn": "978-1"}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = postJSON(t, env.router, "/return_book", `{"book_isbn": "978-1"}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp SuccessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Book returned successfully", resp.Message)

		book, err := env.books.GetBookByISBN("978-1")
		require.NoError(t, err)
		assert.True(t, book.Available)
	})

	t.Run("is idempotent for an already-available book", func(t *testing.T) {
		env, cleanup := setupLoansTest(t)
		defer cleanup()
		env.addBook(t, "978-1")

		w := postJSON(t, env.router, "/return_book", `{"book_isbn": "978-1"}`)
		assert.Equal(t, http.StatusOK, w.Code)

		book, err := env.books.GetBookByISBN("978-1")
		require.NoError(t, err)
		assert.True(t, book.Available)
	})

	t.Run("rejects missing isbn", func(t *testing.T) {
		env, cleanup := setupLoansTest(t)
		defer cleanup()

		w := postJSON(t, env.router, "/return_book", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Missing ISBN", resp.Error)
	})

	t.Run("returns 404 for unknown isbn", func(t *testing.T) {
		env, cleanup := setupLoansTest(t)
		defer cleanup()

		w := postJSON(t, env.router, "/return_book", `{"book_isbn": "missing"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
