package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// Global test user ID - stored here so setupTestContext can use it
var testUserID string

// setupTestDB creates a test auth database with a sample user
func setupTestDB(t *testing.T) func() {
	tmpAuthDB := "test_handlers_auth.db"

	// Clean up any existing test database
	os.Remove(tmpAuthDB)

	if err := InitAuthDB(tmpAuthDB); err != nil {
		t.Fatalf("Failed to initialize auth database: %v", err)
	}

	user, err := CreateUser("testuser", "password123")
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	// Store user ID globally for setupTestContext to use
	testUserID = user.ID

	return func() {
		if authDB != nil {
			authDB.Close()
		}
		os.Remove(tmpAuthDB)
	}
}

// setupTestContext creates an Echo context with user authentication
func setupTestContext(method, url string, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Set user context (simulating authentication middleware)
	c.Set("user_id", testUserID)
	c.Set("username", "testuser")

	return c, rec
}

func TestHandleProcess(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	body := `{"text":"01712345678, +8801712345678; ০১৮৯৮৭৬৫৪৩২ junk","country_code":"880"}`
	c, rec := setupTestContext(http.MethodPost, "/api/process", body)

	if err := HandleProcess(c); err != nil {
		t.Fatalf("HandleProcess failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var result Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if len(result.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(result.Rows))
	}
	if result.Rows[0].Number != "+8801712345678" {
		t.Errorf("Expected first row +8801712345678, got %s", result.Rows[0].Number)
	}
	if result.Rows[1].Number != "+8801898765432" {
		t.Errorf("Expected second row +8801898765432, got %s", result.Rows[1].Number)
	}
	if result.Total != 4 {
		t.Errorf("Expected total 4, got %d", result.Total)
	}
	if result.Duplicates != 1 {
		t.Errorf("Expected 1 duplicate, got %d", result.Duplicates)
	}
	if result.Rejected != 1 {
		t.Errorf("Expected 1 rejected, got %d", result.Rejected)
	}

	// The batch should be recorded in the history table
	records, err := GetBatchHistory(testUserID, 10)
	if err != nil {
		t.Fatalf("Failed to get history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 history record, got %d", len(records))
	}
	if records[0].Source != "api" {
		t.Errorf("Expected source api, got %s", records[0].Source)
	}
	if records[0].Numbers != 2 || records[0].Total != 4 {
		t.Errorf("Unexpected history counts: %+v", records[0])
	}
}

func TestHandleProcessEmptyInput(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	c, rec := setupTestContext(http.MethodPost, "/api/process", `{"text":""}`)

	if err := HandleProcess(c); err != nil {
		t.Fatalf("HandleProcess failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var result Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result.Rows == nil || len(result.Rows) != 0 {
		t.Errorf("Expected empty non-nil rows, got %v", result.Rows)
	}
}

func TestHandleExport(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	body := `{"text":"01712345678","country_code":"+880"}`
	c, rec := setupTestContext(http.MethodPost, "/api/export", body)

	if err := HandleExport(c); err != nil {
		t.Fatalf("HandleExport failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Expected text/csv content type, got %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=numbers.csv" {
		t.Errorf("Unexpected Content-Disposition: %s", cd)
	}

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0] != `"number","digits","tel","sms","whatsapp","custom"` {
		t.Errorf("Unexpected header line: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], `"+8801712345678","8801712345678"`) {
		t.Errorf("Unexpected row line: %s", lines[1])
	}
}

func TestHandleCopy(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	body := `{"text":"01712345678 01898765432","country_code":"+880"}`
	c, rec := setupTestContext(http.MethodPost, "/api/copy", body)

	if err := HandleCopy(c); err != nil {
		t.Fatalf("HandleCopy failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "+8801712345678\n+8801898765432" {
		t.Errorf("Unexpected copy payload: %q", rec.Body.String())
	}
}

func TestHandleCopySingleNumber(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	body := `{"text":"01712345678 01898765432","country_code":"+880"}`
	c, rec := setupTestContext(http.MethodPost, "/api/copy?number=%2B8801898765432", body)

	if err := HandleCopy(c); err != nil {
		t.Fatalf("HandleCopy failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "+8801898765432" {
		t.Errorf("Unexpected copy payload: %q", rec.Body.String())
	}
}

func TestHandleCopyNumberNotInBatch(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	body := `{"text":"01712345678","country_code":"+880"}`
	c, rec := setupTestContext(http.MethodPost, "/api/copy?number=%2B15551234567", body)

	if err := HandleCopy(c); err != nil {
		t.Fatalf("HandleCopy failed: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	// Defaults before anything is saved
	c, rec := setupTestContext(http.MethodGet, "/api/settings", "")
	if err := HandleGetSettings(c); err != nil {
		t.Fatalf("HandleGetSettings failed: %v", err)
	}
	var settings Settings
	if err := json.Unmarshal(rec.Body.Bytes(), &settings); err != nil {
		t.Fatalf("Failed to parse settings: %v", err)
	}
	if settings.CountryCode != "+880" {
		t.Errorf("Expected default country code +880, got %s", settings.CountryCode)
	}

	// Save with a bare-digits country code; it comes back canonical
	body := `{"country_code":"880","message":"hello","template":"https://x.com/{digits}","options":{"min_digits":8,"max_digits":15}}`
	c, rec = setupTestContext(http.MethodPut, "/api/settings", body)
	if err := HandleUpdateSettings(c); err != nil {
		t.Fatalf("HandleUpdateSettings failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	c, rec = setupTestContext(http.MethodGet, "/api/settings", "")
	if err := HandleGetSettings(c); err != nil {
		t.Fatalf("HandleGetSettings failed: %v", err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &settings); err != nil {
		t.Fatalf("Failed to parse settings: %v", err)
	}
	if settings.CountryCode != "+880" {
		t.Errorf("Expected canonical country code +880, got %s", settings.CountryCode)
	}
	if settings.Message != "hello" {
		t.Errorf("Expected saved message, got %s", settings.Message)
	}
	if settings.Template != "https://x.com/{digits}" {
		t.Errorf("Expected saved template, got %s", settings.Template)
	}
}

func TestHandleHistory(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	if err := RecordBatch(testUserID, "file", Result{
		Rows:       []Row{{Number: "+8801712345678"}},
		Total:      3,
		Rejected:   1,
		Duplicates: 1,
	}); err != nil {
		t.Fatalf("Failed to record batch: %v", err)
	}

	c, rec := setupTestContext(http.MethodGet, "/api/history", "")
	if err := HandleHistory(c); err != nil {
		t.Fatalf("HandleHistory failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var records []BatchRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("Failed to parse history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Source != "file" || records[0].Numbers != 1 || records[0].Total != 3 {
		t.Errorf("Unexpected history record: %+v", records[0])
	}
}
