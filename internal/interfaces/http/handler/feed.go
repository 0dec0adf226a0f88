package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/obpp/dashboard/internal/application/feed"
	"github.com/obpp/dashboard/internal/domain/tabular"
	"github.com/obpp/dashboard/internal/interfaces/http/dto"
)

// FeedLoader downloads one of the read-only spreadsheet feeds
type FeedLoader interface {
	Load(ctx context.Context, page feed.Page) (*tabular.Dataset, error)
}

// FeedHandler serves the Home and Compliance Status views
type FeedHandler struct {
	BaseHandler
	feeds FeedLoader
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feeds FeedLoader) *FeedHandler {
	return &FeedHandler{feeds: feeds}
}

// Home godoc
// @ID           getHomePage
// @Summary      Home feed
// @Tags         pages
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      502 {object} dto.Response
// @Router       /pages/home [get]
func (h *FeedHandler) Home(c *gin.Context) {
	h.render(c, feed.PageHome)
}

// ComplianceStatus godoc
// @ID           getComplianceStatusPage
// @Summary      Compliance status feed
// @Tags         pages
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      502 {object} dto.Response
// @Router       /pages/compliance-status [get]
func (h *FeedHandler) ComplianceStatus(c *gin.Context) {
	h.render(c, feed.PageComplianceStatus)
}

func (h *FeedHandler) render(c *gin.Context, page feed.Page) {
	table, err := h.feeds.Load(c.Request.Context(), page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithTotal(c, dto.NewDataset(table), table.Len())
}
