package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"unifiedweb_go/services/events"
)

// The bridge endpoint must turn away unauthenticated upgrade attempts
// before any connection reaches the hub.
func TestHTTPUpgradeHandlerRejectsMissingToken(t *testing.T) {
	wsc := NewWebSocketController(events.NewHub())

	req := httptest.NewRequest("GET", "/ws", nil)
	rec := httptest.NewRecorder()
	wsc.HTTPUpgradeHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHTTPUpgradeHandlerRejectsMalformedToken(t *testing.T) {
	wsc := NewWebSocketController(events.NewHub())

	req := httptest.NewRequest("GET", "/ws?token=not-a-jwt", nil)
	rec := httptest.NewRecorder()
	wsc.HTTPUpgradeHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
