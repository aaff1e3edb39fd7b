package authhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"npsportal/internal/domain/auth"
	"npsportal/internal/transport/http/middleware"
)

type fakeStore struct {
	users   map[string]auth.User
	creds   map[string]auth.Credential
	created int
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]auth.User{}, creds: map[string]auth.Credential{}}
}

func (f *fakeStore) FindCredentialByUsername(_ context.Context, username string) (auth.Credential, error) {
	cred, ok := f.creds[username]
	if !ok {
		return auth.Credential{}, auth.ErrNotFound
	}
	return cred, nil
}

func (f *fakeStore) CreateUser(_ context.Context, account auth.NewAccount) (auth.User, error) {
	if _, taken := f.creds[account.Username]; taken {
		return auth.User{}, auth.ErrUsernameTaken
	}
	f.created++
	birthday := account.Birthday
	user := auth.User{
		ID:             "u1",
		EmployeeNumber: "000002",
		Username:       account.Username,
		Role:           account.Role,
		FirstName:      account.FirstName,
		LastName:       account.LastName,
		Address:        account.Address,
		Gender:         account.Gender,
		Birthday:       &birthday,
		TINNumber:      account.TINNumber,
		GSISNumber:     account.GSISNumber,
		PagibigNumber:  account.PagibigNumber,
		CreatedAt:      time.Now(),
	}
	f.users[user.ID] = user
	f.creds[account.Username] = auth.Credential{
		UserID:       user.ID,
		Username:     account.Username,
		Role:         account.Role,
		PasswordHash: account.PasswordHash,
	}
	return user, nil
}

func (f *fakeStore) GetUser(_ context.Context, userID string) (auth.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return user, nil
}

func newTestHandler() (*Handler, *fakeStore) {
	store := newFakeStore()
	return NewHandler(auth.NewService(store), "test-secret", time.Hour, false), store
}

func signupBody(overrides map[string]string) string {
	fields := map[string]string{
		"firstName":     "Juan",
		"lastName":      "Dela Cruz",
		"username":      "jdelacruz",
		"password":      "s3cret-pass",
		"address":       "Quezon City",
		"gender":        "male",
		"birthday":      "1990-06-15",
		"tinNumber":     "123-456-789",
		"gsisNumber":    "GS-0001",
		"pagibigNumber": "PB-0001",
	}
	for k, v := range overrides {
		if v == "" {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}
	raw, _ := json.Marshal(fields)
	return string(raw)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return envelope
}

func errorCode(t *testing.T, envelope map[string]any) string {
	t.Helper()
	errObj, ok := envelope["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %v", envelope)
	}
	code, _ := errObj["code"].(string)
	return code
}

func tokenCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.TokenCookie {
			return cookie
		}
	}
	return nil
}

func TestSignupCreatesEmployeeAndSetsCookie(t *testing.T) {
	handler, store := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(signupBody(nil)))
	rec := httptest.NewRecorder()
	handler.HandleSignup(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if store.created != 1 {
		t.Fatalf("expected one created user, got %d", store.created)
	}
	if store.creds["jdelacruz"].Role != auth.RoleEmployee {
		t.Fatalf("signup must always create an employee, got %s", store.creds["jdelacruz"].Role)
	}

	cookie := tokenCookie(rec)
	if cookie == nil {
		t.Fatal("expected token cookie")
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("cookie must be HttpOnly SameSite=Strict, got %+v", cookie)
	}
	if _, err := auth.ParseToken("test-secret", cookie.Value); err != nil {
		t.Fatalf("cookie does not carry a valid token: %v", err)
	}
}

func TestSignupMissingFieldsCreatesNothing(t *testing.T) {
	handler, store := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(signupBody(map[string]string{"birthday": "", "address": ""})))
	rec := httptest.NewRecorder()
	handler.HandleSignup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if code := errorCode(t, envelope); code != "validation_error" {
		t.Fatalf("got error code %q, want validation_error", code)
	}
	if store.created != 0 {
		t.Fatalf("validation failure must not create a user, got %d", store.created)
	}
	if tokenCookie(rec) != nil {
		t.Fatal("validation failure must not set a cookie")
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	handler, _ := newTestHandler()

	rec := httptest.NewRecorder()
	handler.HandleSignup(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(signupBody(nil))))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first signup failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.HandleSignup(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(signupBody(nil))))
	if rec.Code != http.StatusConflict {
		t.Fatalf("got status %d, want 409", rec.Code)
	}
	if code := errorCode(t, decodeEnvelope(t, rec)); code != "username_taken" {
		t.Fatalf("got error code %q, want username_taken", code)
	}
}

func TestLoginOutcomes(t *testing.T) {
	handler, store := newTestHandler()

	hash, err := auth.HashPassword("right-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	store.creds["jdoe"] = auth.Credential{UserID: "u1", Username: "jdoe", Role: auth.RoleEmployee, PasswordHash: hash}
	store.users["u1"] = auth.User{ID: "u1", Username: "jdoe", Role: auth.RoleEmployee}

	cases := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"unknown username", `{"username":"ghost","password":"whatever"}`, http.StatusNotFound, "not_found"},
		{"wrong password", `{"username":"jdoe","password":"wrong"}`, http.StatusUnauthorized, "invalid_credentials"},
		{"success", `{"username":"jdoe","password":"right-password"}`, http.StatusCreated, ""},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		handler.HandleLogin(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tc.body)))
		if rec.Code != tc.wantCode {
			t.Fatalf("%s: got status %d, want %d", tc.name, rec.Code, tc.wantCode)
		}
		if tc.wantErr != "" {
			if code := errorCode(t, decodeEnvelope(t, rec)); code != tc.wantErr {
				t.Fatalf("%s: got error code %q, want %q", tc.name, code, tc.wantErr)
			}
			if tokenCookie(rec) != nil {
				t.Fatalf("%s: failed login must not set a cookie", tc.name)
			}
			continue
		}
		cookie := tokenCookie(rec)
		if cookie == nil {
			t.Fatal("successful login must set the token cookie")
		}
		claims, err := auth.ParseToken("test-secret", cookie.Value)
		if err != nil {
			t.Fatalf("cookie token invalid: %v", err)
		}
		if claims.UserID != "u1" || claims.Role != auth.RoleEmployee {
			t.Fatalf("unexpected claims: %+v", claims)
		}
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	handler, _ := newTestHandler()

	rec := httptest.NewRecorder()
	handler.HandleLogout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	cookie := tokenCookie(rec)
	if cookie == nil || cookie.MaxAge != -1 || cookie.Value != "" {
		t.Fatalf("logout must expire the cookie, got %+v", cookie)
	}
}
