package router

import (
	"github.com/gin-gonic/gin"
	"github.com/obpp/dashboard/internal/interfaces/http/handler"
)

// Handlers groups the handlers mounted under /api/<version>
type Handlers struct {
	System *handler.SystemHandler
	Pages  *handler.PageHandler
	Feed   *handler.FeedHandler
	ISIN   *handler.ISINHandler
	Broker *handler.BrokerHandler
}

// Groups returns the dashboard route groups
func (h Handlers) Groups() []*DomainGroup {
	pages := NewDomainGroup("pages", "/pages").
		GET("", h.Pages.ListPages).
		GET("/"+handler.PageHome, h.Feed.Home).
		GET("/"+handler.PageComplianceStatus, h.Feed.ComplianceStatus).
		POST("/"+handler.PageISINListingStatus, h.ISIN.ProcessUpload).
		GET("/"+handler.PageBrokerRegistration, h.Broker.Search)

	isin := NewDomainGroup("isin", "/isin").
		POST("/resolve", h.ISIN.Resolve)

	system := NewDomainGroup("system", "/system").
		GET("/ping", h.System.Ping).
		GET("/info", h.System.GetSystemInfo)

	return []*DomainGroup{pages, isin, system}
}

// Mount registers every group on r and answers unknown routes with the
// standard error envelope.
func Mount(engine *gin.Engine, h Handlers, opts ...RouterOption) *Router {
	r := NewRouter(engine, opts...)
	for _, g := range h.Groups() {
		r.Register(g)
	}
	r.Setup()

	notFound := &handler.BaseHandler{}
	engine.NoRoute(func(c *gin.Context) {
		notFound.NotFound(c, "Route not found")
	})
	return r
}
