package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/circulation/internal/database"
	"github.com/shelfmark/circulation/internal/database/books"
	"github.com/shelfmark/circulation/internal/database/loans"
	"github.com/shelfmark/circulation/internal/database/users"
)

func TestStatsController_GetStats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dbPath := "./test_stats_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer func() {
		db.Close()
		os.Remove(dbPath)
	}()

	booksRepo := books.NewRepository(db.DB)
	usersRepo := users.NewRepository(db.DB)
	loansRepo := loans.NewRepository(db.DB, usersRepo, 14)

	_, err = booksRepo.AddBook("Dune", "Frank Herbert", "978-1")
	require.NoError(t, err)
	_, err = booksRepo.AddBook("Snow Crash", "Neal Stephenson", "978-2")
	require.NoError(t, err)
	_, err = loansRepo.BeginLoan("Alice", "978-1")
	require.NoError(t, err)

	controller := NewStatsController(statsStore{books: booksRepo, loans: loansRepo, users: usersRepo})
	router := gin.New()
	router.GET("/api/stats", controller.GetStats)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats["total_books"])
	assert.Equal(t, int64(1), stats["open_loans"])
	assert.Equal(t, int64(1), stats["registered_users"])
}
