package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/obpp/dashboard/internal/domain/broker"
	"github.com/obpp/dashboard/internal/domain/tabular"
	"github.com/obpp/dashboard/internal/infrastructure/session"
	"github.com/obpp/dashboard/internal/interfaces/http/middleware"
)

// NoBrokersMessage is returned alongside an empty result
const NoBrokersMessage = "No brokers found with that name."

// BrokerSearcher searches the regulator list memoized in a session slot
type BrokerSearcher interface {
	Search(ctx context.Context, slot *session.Slot[*tabular.Dataset], query string) ([]broker.Record, error)
}

// BrokerHandler serves the broker registration view
type BrokerHandler struct {
	BaseHandler
	brokers BrokerSearcher
}

// NewBrokerHandler creates a new BrokerHandler
func NewBrokerHandler(brokers BrokerSearcher) *BrokerHandler {
	return &BrokerHandler{brokers: brokers}
}

// BrokerSearchResponse is the payload of the broker search
type BrokerSearchResponse struct {
	Query   string          `json:"query"`
	Brokers []broker.Record `json:"brokers"`
	Message string          `json:"message,omitempty"`
}

// Search godoc
// @ID           searchBrokers
// @Summary      Search registered stock brokers by name
// @Tags         pages
// @Produce      json
// @Param        name query string false "Part of the broker name, case-insensitive"
// @Success      200 {object} dto.Response
// @Failure      502 {object} dto.Response
// @Router       /pages/broker-registration [get]
func (h *BrokerHandler) Search(c *gin.Context) {
	query := c.Query("name")

	// without the session middleware the list is loaded for this request only
	slot := session.NewSlot[*tabular.Dataset]()
	if sess := middleware.GetSession(c); sess != nil {
		slot = sess.BrokerDirectory
	}

	records, err := h.brokers.Search(c.Request.Context(), slot, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := BrokerSearchResponse{Query: query, Brokers: records}
	if len(records) == 0 {
		resp.Message = NoBrokersMessage
	}
	h.SuccessWithTotal(c, resp, len(records))
}
