package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfmark/circulation/internal/entities"
)

// AuditStore provides read access to the audit trail.
type AuditStore interface {
	GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error)
}

type AuditController struct {
	store AuditStore
}

func NewAuditController(store AuditStore) *AuditController {
	return &AuditController{store: store}
}

// GetEvents returns a page of audit events, most recent first.
func (controller *AuditController) GetEvents(c *gin.Context) {
	limit := parseQueryInt(c, "limit", 50)
	offset := parseQueryInt(c, "offset", 0)

	events, total, err := controller.store.GetEvents(limit, offset)
	if err != nil {
		respondInternalError(c, err, "get audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
