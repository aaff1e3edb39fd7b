package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRateLimitUsesUserKeyBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	userCtx := context.WithValue(context.Background(), ctxKeyUser, UserContext{
		UserID:   "user-1",
		Username: "jdoe",
	})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/time-in", nil).WithContext(userCtx)
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/time-in", nil).WithContext(userCtx)
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by user key, got %d", secondRec.Code)
	}
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	first := httptest.NewRequest(http.MethodGet, "/api/v1/directory/departments", nil)
	first.RemoteAddr = "203.0.113.10:4444"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/api/v1/directory/departments", nil)
	second.RemoteAddr = "203.0.113.10:5555"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request from same IP to be throttled, got %d", secondRec.Code)
	}

	other := httptest.NewRequest(http.MethodGet, "/api/v1/directory/departments", nil)
	other.RemoteAddr = "203.0.113.99:6666"
	otherRec := httptest.NewRecorder()
	limited.ServeHTTP(otherRec, other)
	if otherRec.Code != http.StatusNoContent {
		t.Fatalf("expected different IP to pass, got %d", otherRec.Code)
	}
}

func TestAuthRateLimitKeysByUsername(t *testing.T) {
	limited := AuthRateLimit(4, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	body := `{"username":"jdoe","password":"wrong"}`
	newLoginReq := func(addr string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = addr
		return req
	}

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, newLoginReq("198.51.100.20:1111"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected first attempt to pass, got %d", rec.Code)
	}

	// Different address, same username: still throttled.
	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, newLoginReq("198.51.100.21:1111"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected username bucket to throttle, got %d", rec.Code)
	}
}

func TestAuthRateLimitIgnoresGets(t *testing.T) {
	limited := AuthRateLimit(4, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.RemoteAddr = "198.51.100.30:1111"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("GETs must not consume the auth bucket, got %d on attempt %d", rec.Code, i+1)
		}
	}
}
