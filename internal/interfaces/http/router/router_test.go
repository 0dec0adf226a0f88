package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/obpp/dashboard/internal/application/feed"
	"github.com/obpp/dashboard/internal/domain/broker"
	"github.com/obpp/dashboard/internal/domain/listing"
	"github.com/obpp/dashboard/internal/domain/tabular"
	"github.com/obpp/dashboard/internal/infrastructure/session"
	"github.com/obpp/dashboard/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group)
	assert.Len(t, r.registrars, 1)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		dg := NewDomainGroup("pages", "/pages")
		assert.Equal(t, "pages", dg.Name())
		assert.Equal(t, "/pages", dg.Prefix())
	})

	t.Run("registers GET and POST routes", func(t *testing.T) {
		engine := gin.New()
		dg := NewDomainGroup("test", "/test").
			GET("/item", func(c *gin.Context) { c.String(http.StatusOK, "get") }).
			POST("/item", func(c *gin.Context) { c.String(http.StatusCreated, "post") })
		dg.RegisterRoutes(engine.Group(""))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/test/item", nil))
		assert.Equal(t, "get", w.Body.String())

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("POST", "/test/item", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		dg := NewDomainGroup("test", "/test").
			Use(func(c *gin.Context) {
				c.Header("X-Group", "test")
				c.Next()
			}).
			GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
		dg.RegisterRoutes(engine.Group(""))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/test/ping", nil))
		assert.Equal(t, "test", w.Header().Get("X-Group"))
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		dg := NewDomainGroup("parent", "/parent")
		dg.Group("child", "/child").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "child") })
		dg.RegisterRoutes(engine.Group(""))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/parent/child/ping", nil))
		assert.Equal(t, "child", w.Body.String())
	})
}

type stubFeeds struct{}

func (stubFeeds) Load(context.Context, feed.Page) (*tabular.Dataset, error) {
	return tabular.New([]string{"A"}), nil
}

type stubProcessor struct{}

func (stubProcessor) Process(context.Context, io.Reader) ([]byte, error) { return []byte("xlsx"), nil }

func (stubProcessor) Resolve(_ context.Context, isins []string) map[string]listing.Record {
	out := make(map[string]listing.Record)
	for _, isin := range isins {
		out[isin] = listing.UnknownRecord(isin)
	}
	return out
}

type stubBrokers struct{}

func (stubBrokers) Search(context.Context, *session.Slot[*tabular.Dataset], string) ([]broker.Record, error) {
	return []broker.Record{}, nil
}

func TestMount(t *testing.T) {
	engine := gin.New()
	Mount(engine, Handlers{
		System: handler.NewSystemHandler("obpp-dashboard", "test"),
		Pages:  handler.NewPageHandler(),
		Feed:   handler.NewFeedHandler(stubFeeds{}),
		ISIN:   handler.NewISINHandler(stubProcessor{}),
		Broker: handler.NewBrokerHandler(stubBrokers{}),
	})

	routes := map[string]bool{}
	for _, ri := range engine.Routes() {
		routes[ri.Method+" "+ri.Path] = true
	}
	for _, want := range []string{
		"GET /api/v1/pages",
		"GET /api/v1/pages/home",
		"GET /api/v1/pages/compliance-status",
		"POST /api/v1/pages/isin-listing-status",
		"GET /api/v1/pages/broker-registration",
		"POST /api/v1/isin/resolve",
		"GET /api/v1/system/ping",
		"GET /api/v1/system/info",
	} {
		assert.True(t, routes[want], "route %s not registered", want)
	}

	// every catalog entry points at a registered route
	for _, p := range handler.Catalog {
		assert.True(t, routes[p.Method+" "+p.Route], "catalog route %s %s not registered", p.Method, p.Route)
	}

	t.Run("serves a page", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/pages/home", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("resolves ISINs", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/isin/resolve", strings.NewReader(`{"isins":["US0378331005"]}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown route uses the error envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	})
}
