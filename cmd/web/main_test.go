package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	setupRoutes(router, &Handlers{})

	registered := map[string]bool{}
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /",
		"POST /insert",
		"GET /update",
		"POST /update",
		"GET /delete/:id",
		"POST /delete/:id",
		"GET /events",
		"GET /health",
		"GET /metrics",
	} {
		if !registered[want] {
			t.Errorf("route %q not registered", want)
		}
	}
	if registered["GET /insert"] {
		t.Error("GET /insert should not be routed")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	setupRoutes(router, &Handlers{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	for _, want := range []string{"ewaste_sse_clients", "ewaste_products"} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("metric %s not exposed", want)
		}
	}
}
