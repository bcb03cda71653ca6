package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestID_GeneratesID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())

	var ctxID string
	router.GET("/test", func(c *gin.Context) {
		ctxID = GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	headerID := w.Header().Get(HeaderXRequestID)
	if headerID == "" {
		t.Fatal("Expected X-Request-ID header to be set")
	}
	if ctxID != headerID {
		t.Errorf("Expected context request ID %q to match header %q", ctxID, headerID)
	}
}

func TestRequestID_PreservesIncomingID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderXRequestID, "incoming-id")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(HeaderXRequestID); got != "incoming-id" {
		t.Errorf("Expected incoming request ID to be preserved, got %q", got)
	}
}
