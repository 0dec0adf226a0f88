package handler

import "github.com/gin-gonic/gin"

// Page keys, also the last path segment of each view's route
const (
	PageHome               = "home"
	PageComplianceStatus   = "compliance-status"
	PageISINListingStatus  = "isin-listing-status"
	PageBrokerRegistration = "broker-registration"
)

// PageInfo describes one dashboard view for the navigation menu
type PageInfo struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Method string `json:"method"`
	Route  string `json:"route"`
}

// Catalog lists the four views in menu order
var Catalog = []PageInfo{
	{Key: PageHome, Title: "Home", Method: "GET", Route: "/api/v1/pages/" + PageHome},
	{Key: PageComplianceStatus, Title: "Compliance Status", Method: "GET", Route: "/api/v1/pages/" + PageComplianceStatus},
	{Key: PageISINListingStatus, Title: "Check ISIN Listing Status", Method: "POST", Route: "/api/v1/pages/" + PageISINListingStatus},
	{Key: PageBrokerRegistration, Title: "Check Broker Registration", Method: "GET", Route: "/api/v1/pages/" + PageBrokerRegistration},
}

// PageHandler serves the navigation catalog
type PageHandler struct {
	BaseHandler
}

// NewPageHandler creates a new PageHandler
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// ListPages godoc
// @ID           listPages
// @Summary      List dashboard views
// @Tags         pages
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /pages [get]
func (h *PageHandler) ListPages(c *gin.Context) {
	h.SuccessWithTotal(c, Catalog, len(Catalog))
}
