package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCheckInCountsByLevel(t *testing.T) {
	before := testutil.ToFloat64(checkinsSubmitted.WithLabelValues("Crisis"))
	ObserveCheckIn("Crisis", 100)
	after := testutil.ToFloat64(checkinsSubmitted.WithLabelValues("Crisis"))
	if after-before != 1 {
		t.Fatalf("expected counter to increase by 1, got %v", after-before)
	}
}

func TestHandlerRendersPrometheusText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncAlertPublished("log", "ok")

	r := gin.New()
	r.GET("/metrics", Handler())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "alerts_published_total") {
		t.Fatalf("expected alerts_published_total in output")
	}
}
