package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfilingWithLabels(t *testing.T) {
	t.Run("labels the request context", func(t *testing.T) {
		router := gin.New()
		router.Use(ProfilingWithLabels(true))

		var route, resource string
		router.GET("/api/v1/seller/products/:id", func(c *gin.Context) {
			route, _ = pprof.Label(c.Request.Context(), ProfilingLabelRoute)
			resource, _ = pprof.Label(c.Request.Context(), ProfilingLabelResource)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/seller/products/7", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "/api/v1/seller/products/:id", route)
		assert.Equal(t, "seller", resource)
	})

	t.Run("disabled is a pass-through", func(t *testing.T) {
		router := gin.New()
		router.Use(ProfilingWithLabels(false))

		labelled := true
		router.GET("/x", func(c *gin.Context) {
			_, labelled = pprof.Label(c.Request.Context(), ProfilingLabelRoute)
			c.Status(http.StatusOK)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.False(t, labelled)
	})
}

func TestResourceFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/products/:id":                  "products",
		"/api/v2/checkout/:id/shipping-options": "checkout",
		"/health":                               "health",
		"/api/v1/:id":                           "",
		"":                                      "",
	}
	for route, want := range tests {
		assert.Equal(t, want, resourceFromRoute(route), route)
	}
}
