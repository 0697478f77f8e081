package books

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shelfmark/circulation/internal/database"
	"github.com/shelfmark/circulation/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Loan{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func TestRepository_AddBook(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.AddBook("Dune", "Frank Herbert", "978-0441172719")
	require.NoError(t, err)
	assert.Greater(t, book.ID, uint(0))
	assert.True(t, book.Available)

	listings, err := repo.ListBooks()
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Dune", listings[0].Title)
	assert.True(t, listings[0].Available)
	assert.Nil(t, listings[0].BorrowedBy)
}

func TestRepository_AddBook_DuplicateISBN(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.AddBook("Dune", "Frank Herbert", "978-0441172719")
	require.NoError(t, err)

	_, err = repo.AddBook("Dune (reissue)", "Frank Herbert", "978-0441172719")
	assert.ErrorIs(t, err, database.ErrDuplicateISBN)

	// Exactly one row survives
	var count int64
	db.Model(&entities.Book{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRepository_AddBook_InvalidInput(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	cases := []struct {
		name                string
		title, author, isbn string
	}{
		{"missing title", "", "Frank Herbert", "978-1"},
		{"missing author", "Dune", "", "978-1"},
		{"missing isbn", "Dune", "Frank Herbert", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.AddBook(tc.title, tc.author, tc.isbn)
			assert.ErrorIs(t, err, database.ErrInvalidInput)
		})
	}
}

func TestRepository_GetBookByISBN(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.AddBook("Dune", "Frank Herbert", "978-0441172719")
	require.NoError(t, err)

	book, err := repo.GetBookByISBN("978-0441172719")
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)

	_, err = repo.GetBookByISBN("missing")
	assert.ErrorIs(t, err, database.ErrBookNotFound)
}

func TestRepository_ListBooks_WithBorrower(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.AddBook("Dune", "Frank Herbert", "978-0441172719")
	require.NoError(t, err)

	user := &entities.User{Name: "Alice"}
	require.NoError(t, db.Create(user).Error)
	loan := &entities.Loan{
		UserID:     user.ID,
		BookID:     book.ID,
		LoanDate:   time.Now(),
		ReturnDate: time.Now().Add(14 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(loan).Error)
	require.NoError(t, db.Model(&entities.Book{}).Where("id = ?", book.ID).Update("available", false).Error)

	listings, err := repo.ListBooks()
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.False(t, listings[0].Available)
	require.NotNil(t, listings[0].BorrowedBy)
	assert.Equal(t, "Alice", *listings[0].BorrowedBy)

	// Returned loans do not surface as borrowers
	require.NoError(t, db.Model(&entities.Loan{}).Where("id = ?", loan.ID).Update("returned", true).Error)
	require.NoError(t, db.Model(&entities.Book{}).Where("id = ?", book.ID).Update("available", true).Error)

	listings, err = repo.ListBooks()
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.True(t, listings[0].Available)
	assert.Nil(t, listings[0].BorrowedBy)
}

func TestRepository_CountBooks(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	count, err := repo.CountBooks()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = repo.AddBook("Dune", "Frank Herbert", "978-0441172719")
	require.NoError(t, err)

	count, err = repo.CountBooks()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
