package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatsStore provides the counters behind the stats endpoint.
type StatsStore interface {
	CountBooks() (int64, error)
	CountOpenLoans() (int64, error)
	CountUsers() (int64, error)
}

type StatsController struct {
	store StatsStore
}

func NewStatsController(store StatsStore) *StatsController {
	return &StatsController{store: store}
}

// GetStats reports inventory and circulation totals.
func (controller *StatsController) GetStats(c *gin.Context) {
	totalBooks, err := controller.store.CountBooks()
	if err != nil {
		respondInternalError(c, err, "count books")
		return
	}
	openLoans, err := controller.store.CountOpenLoans()
	if err != nil {
		respondInternalError(c, err, "count open loans")
		return
	}
	registered, err := controller.store.CountUsers()
	if err != nil {
		respondInternalError(c, err, "count users")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"total_books":      totalBooks,
		"open_loans":       openLoans,
		"registered_users": registered,
	})
}
