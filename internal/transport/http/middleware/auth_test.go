package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"npsportal/internal/domain/auth"
)

const testSecret = "test-secret"

func identityEcho(t *testing.T, want UserContext, wantAuthed bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if ok != wantAuthed {
			t.Fatalf("authenticated = %v, want %v", ok, wantAuthed)
		}
		if ok && user != want {
			t.Fatalf("got identity %+v, want %+v", user, want)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func signToken(t *testing.T, userID, username, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: userID, Username: username, Role: role}, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestAuthFromCookie(t *testing.T) {
	want := UserContext{UserID: "u1", Username: "jdoe", Role: auth.RoleEmployee}
	handler := Auth(testSecret)(identityEcho(t, want, true))

	req := httptest.NewRequest(http.MethodGet, "/attendance/today", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: signToken(t, "u1", "jdoe", auth.RoleEmployee)})
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuthFromBearerHeader(t *testing.T) {
	want := UserContext{UserID: "u2", Username: "admin", Role: auth.RoleAdmin}
	handler := Auth(testSecret)(identityEcho(t, want, true))

	req := httptest.NewRequest(http.MethodGet, "/directory/departments", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u2", "admin", auth.RoleAdmin))
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuthIgnoresBadToken(t *testing.T) {
	handler := Auth(testSecret)(identityEcho(t, UserContext{}, false))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "not-a-token"})
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuthIgnoresTokenSignedWithOtherSecret(t *testing.T) {
	handler := Auth(testSecret)(identityEcho(t, UserContext{}, false))

	forged, err := auth.GenerateToken("other-secret", auth.Claims{UserID: "u1", Username: "jdoe", Role: auth.RoleSuperAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: forged})
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestRequireRole(t *testing.T) {
	protected := RequireRole(auth.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	withAuth := Auth(testSecret)(protected)

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"employee", signToken(t, "u1", "jdoe", auth.RoleEmployee), http.StatusForbidden},
		{"department head", signToken(t, "u2", "head", auth.RoleDepartmentHead), http.StatusForbidden},
		{"admin", signToken(t, "u3", "admin", auth.RoleAdmin), http.StatusNoContent},
		{"super admin", signToken(t, "u4", "root", auth.RoleSuperAdmin), http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin/accounts", nil)
		if tc.token != "" {
			req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tc.token})
		}
		rec := httptest.NewRecorder()
		withAuth.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: got status %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}

func TestRequireRoleEmptyAdmitsAnyAuthenticated(t *testing.T) {
	protected := RequireRole()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	withAuth := Auth(testSecret)(protected)

	req := httptest.NewRequest(http.MethodGet, "/attendance/today", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: signToken(t, "u1", "jdoe", auth.RoleEmployee)})
	rec := httptest.NewRecorder()
	withAuth.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	withAuth.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance/today", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rec.Code)
	}
}
