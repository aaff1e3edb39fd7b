package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"npsportal/internal/app/server"
	"npsportal/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

// chdirModuleRoot moves the test process to the repo root so relative
// paths (migrations/) resolve the same way they do for cmd/server.
func chdirModuleRoot(t *testing.T) {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			if err := os.Chdir(dir); err != nil {
				t.Fatalf("chdir failed: %v", err)
			}
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("module root not found")
		}
		dir = parent
	}
}

func newTestApp(t *testing.T) (*server.App, *httptest.Server, config.Config) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	chdirModuleRoot(t)

	cfg := config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		Environment:        "test",
		FrontendDir:        "frontend/dist",
		OfficeLabel:        "NAPOLCOM Central Office",
		TokenTTL:           time.Hour,
		SeedAdminUsername:  "superadmin",
		SeedAdminPassword:  "ChangeMe123!",
		SeedDepartments:    []string{"Administrative", "Finance"},
		RunMigrations:      true,
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		AuditEnabled:       true,
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return app, ts, cfg
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar failed: %v", err)
	}
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, url string, payload any) (*http.Response, envelope) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s failed: %v", url, err)
	}
	return resp, env
}

func getJSON(t *testing.T, client *http.Client, url string) (*http.Response, envelope) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s failed: %v", url, err)
	}
	return resp, env
}

func TestAttendanceJourney(t *testing.T) {
	_, ts, _ := newTestApp(t)

	employee := newClient(t)
	username := fmt.Sprintf("journey%d", time.Now().UnixNano())

	resp, env := postJSON(t, employee, ts.URL+"/api/v1/auth/signup", map[string]string{
		"firstName":     "Juan",
		"lastName":      "Dela Cruz",
		"username":      username,
		"password":      "s3cret-pass",
		"address":       "Quezon City",
		"gender":        "male",
		"birthday":      "1990-06-15",
		"tinNumber":     "123-456-789",
		"gsisNumber":    "GS-0001",
		"pagibigNumber": "PB-0001",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: got %d, error %+v", resp.StatusCode, env.Error)
	}

	resp, env = postJSON(t, employee, ts.URL+"/api/v1/attendance/time-in", map[string]string{})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("time-in: got %d, error %+v", resp.StatusCode, env.Error)
	}
	var record struct {
		Status   string `json:"status"`
		Location string `json:"location"`
	}
	if err := json.Unmarshal(env.Data, &record); err != nil {
		t.Fatalf("decode record failed: %v", err)
	}
	if record.Status != "present" {
		t.Fatalf("expected present after time-in, got %s", record.Status)
	}
	if record.Location != "NAPOLCOM Central Office" {
		t.Fatalf("unexpected location %q", record.Location)
	}

	resp, env = postJSON(t, employee, ts.URL+"/api/v1/attendance/time-in", map[string]string{})
	if resp.StatusCode != http.StatusConflict || env.Error == nil || env.Error.Code != "already_logged_in" {
		t.Fatalf("duplicate time-in: got %d, error %+v", resp.StatusCode, env.Error)
	}

	resp, env = postJSON(t, employee, ts.URL+"/api/v1/attendance/time-out", map[string]string{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("time-out: got %d, error %+v", resp.StatusCode, env.Error)
	}
	var completed struct {
		Status      string `json:"status"`
		WorkedHours string `json:"workedHours"`
	}
	if err := json.Unmarshal(env.Data, &completed); err != nil {
		t.Fatalf("decode record failed: %v", err)
	}
	if completed.Status != "completed" || completed.WorkedHours == "" {
		t.Fatalf("expected completed record with worked hours, got %+v", completed)
	}

	resp, env = postJSON(t, employee, ts.URL+"/api/v1/attendance/time-out", map[string]string{})
	if resp.StatusCode != http.StatusConflict || env.Error == nil || env.Error.Code != "already_logged_out" {
		t.Fatalf("duplicate time-out: got %d, error %+v", resp.StatusCode, env.Error)
	}

	resp, env = getJSON(t, employee, ts.URL+"/api/v1/admin/metrics")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("employee must not reach admin routes: got %d", resp.StatusCode)
	}
}

func TestAdminAccountCreationJourney(t *testing.T) {
	_, ts, cfg := newTestApp(t)

	admin := newClient(t)
	resp, env := postJSON(t, admin, ts.URL+"/api/v1/auth/login", map[string]string{
		"username": cfg.SeedAdminUsername,
		"password": cfg.SeedAdminPassword,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed admin login: got %d, error %+v", resp.StatusCode, env.Error)
	}

	username := fmt.Sprintf("head%d", time.Now().UnixNano())
	resp, env = postJSON(t, admin, ts.URL+"/api/v1/admin/accounts", map[string]string{
		"firstName":     "Maria",
		"lastName":      "Santos",
		"username":      username,
		"password":      "s3cret-pass",
		"address":       "Manila",
		"gender":        "female",
		"birthday":      "1985-01-20",
		"tinNumber":     "987-654-321",
		"gsisNumber":    "GS-0002",
		"pagibigNumber": "PB-0002",
		"role":          "department_head",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin account creation: got %d, error %+v", resp.StatusCode, env.Error)
	}
	var created struct {
		Role           string `json:"role"`
		EmployeeNumber string `json:"employeeNumber"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode created account failed: %v", err)
	}
	if created.Role != "department_head" {
		t.Fatalf("expected department_head, got %s", created.Role)
	}
	if len(created.EmployeeNumber) != 6 {
		t.Fatalf("expected zero-padded employee number, got %q", created.EmployeeNumber)
	}

	head := newClient(t)
	resp, env = postJSON(t, head, ts.URL+"/api/v1/auth/login", map[string]string{
		"username": username,
		"password": "s3cret-pass",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("created account login: got %d, error %+v", resp.StatusCode, env.Error)
	}

	resp, env = getJSON(t, admin, ts.URL+"/api/v1/admin/audit")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("audit listing: got %d, error %+v", resp.StatusCode, env.Error)
	}
}
