package blueprint

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestBlueprint_Routes(t *testing.T) {
	bp := New("billing")
	bp.GET("/billing/", func(c *gin.Context) {}).
		POST("/billing/invoices", func(c *gin.Context) {})

	routes := bp.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, http.MethodGet, routes[0].Method)
	assert.Equal(t, "/billing/", routes[0].Path)
	assert.Equal(t, http.MethodPost, routes[1].Method)
	assert.Equal(t, "billing", bp.Name())
}

func TestBlueprint_Prefix(t *testing.T) {
	tests := []struct {
		prefix string
		path   string
		want   string
	}{
		{"", "/x", "/x"},
		{"/api", "/x", "/api/x"},
		{"/api", "/", "/api/"},
		{"/api/", "/x/", "/api/x/"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix+tt.path, func(t *testing.T) {
			bp := New("m", WithPrefix(tt.prefix)).GET(tt.path, func(*gin.Context) {})
			assert.Equal(t, tt.want, bp.Routes()[0].Path)
			assert.Equal(t, tt.prefix, bp.Prefix())
		})
	}
}

func TestBlueprint_RegisterServesRoutes(t *testing.T) {
	var trace []string
	bp := New("billing", WithPrefix("/billing")).
		Use(func(c *gin.Context) { trace = append(trace, "mw"); c.Next() })
	bp.GET("/", func(c *gin.Context) {
		trace = append(trace, "handler")
		c.String(http.StatusOK, "Hello from billing module!")
	})
	bp.DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	engine := gin.New()
	bp.Register(engine)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/billing/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello from billing module!", rec.Body.String())
	assert.Equal(t, []string{"mw", "handler"}, trace)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/billing/42", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestBlueprint_MethodHelpers(t *testing.T) {
	h := func(*gin.Context) {}
	bp := New("m").GET("/a", h).POST("/a", h).PUT("/a", h).PATCH("/a", h).DELETE("/a", h)

	var methods []string
	for _, r := range bp.Routes() {
		methods = append(methods, r.Method)
	}
	assert.Equal(t, []string{"GET", "POST", "PUT", "PATCH", "DELETE"}, methods)
}
