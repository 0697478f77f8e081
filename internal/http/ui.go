package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type UIController struct {
	stats StatsStore
}

func NewUIController(stats StatsStore) *UIController {
	return &UIController{stats: stats}
}

// IndexPage renders the landing page with current circulation totals.
func (controller *UIController) IndexPage(c *gin.Context) {
	var totalBooks, openLoans int64
	if controller.stats != nil {
		totalBooks, _ = controller.stats.CountBooks()
		openLoans, _ = controller.stats.CountOpenLoans()
	}

	c.HTML(http.StatusOK, "index", gin.H{
		"TotalBooks": totalBooks,
		"OpenLoans":  openLoans,
	})
}
