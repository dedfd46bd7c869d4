package sleep_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sleeptracker/internal/sleep"
	"sleeptracker/internal/testutil"
)

func setupMux(t *testing.T) *http.ServeMux {
	t.Helper()

	repo, _ := newRepo(t)
	svc := sleep.NewService(repo, testutil.Logger())
	handler := sleep.NewHandler(svc, testutil.Logger())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux
}

func doRequest(mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func createRecord(t *testing.T, mux *http.ServeMux, start, end string) sleep.View {
	t.Helper()
	w := doRequest(mux, "POST", "/api/sleeps", sleep.CreateRequest{Start: start, End: end})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %q", w.Code, w.Body.String())
	}
	var view sleep.View
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return view
}

func TestHandleCreate(t *testing.T) {
	mux := setupMux(t)

	w := doRequest(mux, "POST", "/api/sleeps", sleep.CreateRequest{
		Start: "2025-01-01T22:00:00Z",
		End:   "2025-01-02T06:00:00Z",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %q)", w.Code, w.Body.String())
	}

	var view sleep.View
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.DurationHours != "8" {
		t.Errorf("durationHours = %q, want \"8\"", view.DurationHours)
	}
	if loc := w.Header().Get("Location"); loc != "/api/sleeps/1" {
		t.Errorf("Location = %q, want /api/sleeps/1", loc)
	}
}

func TestHandleCreateSubSecondInput(t *testing.T) {
	mux := setupMux(t)

	// Sub-second precision is dropped on the way in, so the create
	// response and later reads describe the same stored instant.
	created := createRecord(t, mux, "2025-01-01T22:00:00.123Z", "2025-01-02T06:00:00.456Z")
	if created.Start != "2025-01-01T22:00:00Z" || created.End != "2025-01-02T06:00:00Z" {
		t.Errorf("timestamps = %q..%q", created.Start, created.End)
	}

	get := doRequest(mux, "GET", "/api/sleeps/1", nil)
	var view sleep.View
	if err := json.NewDecoder(get.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view != created {
		t.Errorf("stored view = %+v, create response = %+v", view, created)
	}
}

func TestHandleCreateValidation(t *testing.T) {
	mux := setupMux(t)

	w := doRequest(mux, "POST", "/api/sleeps", sleep.CreateRequest{
		Start: "2025-01-02T06:00:00Z",
		End:   "2025-01-01T22:00:00Z",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "Start time must be earlier than end time." {
		t.Errorf("body = %q", got)
	}
}

func TestHandleCreateBadJSON(t *testing.T) {
	mux := setupMux(t)

	req := httptest.NewRequest("POST", "/api/sleeps", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleList(t *testing.T) {
	mux := setupMux(t)
	createRecord(t, mux, "2025-01-01T22:00:00Z", "2025-01-02T06:00:00Z")
	createRecord(t, mux, "2025-01-02T22:00:00Z", "2025-01-03T06:00:00Z")

	w := doRequest(mux, "GET", "/api/sleeps?Page=1&PageSize=1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}

	var page sleep.PagedResponse[sleep.View]
	if err := json.NewDecoder(w.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Status != sleep.StatusSuccess {
		t.Errorf("status = %d, want success", page.Status)
	}
	if len(page.Data) != 1 || page.TotalRecords != 2 || page.TotalPages != 2 {
		t.Errorf("page = %d items, %d total, %d pages; want 1/2/2",
			len(page.Data), page.TotalRecords, page.TotalPages)
	}
	// List views are fully populated.
	if page.Data[0].Start == "" || page.Data[0].DurationHours == "" {
		t.Errorf("list view not fully populated: %+v", page.Data[0])
	}
}

func TestHandleListParamsCaseInsensitive(t *testing.T) {
	mux := setupMux(t)
	createRecord(t, mux, "2025-01-01T22:00:00Z", "2025-01-02T06:00:00Z")

	w := doRequest(mux, "GET", "/api/sleeps?page=1&pagesize=5&sortby=start", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}
	var page sleep.PagedResponse[sleep.View]
	_ = json.NewDecoder(w.Body).Decode(&page)
	if page.PageSize != 5 {
		t.Errorf("PageSize = %d, want 5", page.PageSize)
	}
}

func TestHandleListDuplicateParamSpellings(t *testing.T) {
	mux := setupMux(t)
	createRecord(t, mux, "2025-01-01T22:00:00Z", "2025-01-02T06:00:00Z")

	// Canonical spelling wins over any other casing of the same name.
	w := doRequest(mux, "GET", "/api/sleeps?Page=1&page=2", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}
	var page sleep.PagedResponse[sleep.View]
	_ = json.NewDecoder(w.Body).Decode(&page)
	if page.PageNumber != 1 {
		t.Errorf("PageNumber = %d, want 1", page.PageNumber)
	}
}

func TestHandleListBadParams(t *testing.T) {
	mux := setupMux(t)

	for _, path := range []string{
		"/api/sleeps?Page=abc",
		"/api/sleeps?PageSize=huge",
		"/api/sleeps?SortAscending=maybe",
		"/api/sleeps?Start=not-a-date",
		"/api/sleeps?MinDurationHours=lots",
	} {
		w := doRequest(mux, "GET", path, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
		}
	}
}

func TestHandleGet(t *testing.T) {
	mux := setupMux(t)
	created := createRecord(t, mux, "2025-01-01T22:00:00Z", "2025-01-02T06:00:00Z")

	w := doRequest(mux, "GET", "/api/sleeps/1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}
	var view sleep.View
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view != created {
		t.Errorf("view = %+v, want %+v", view, created)
	}
}

func TestHandleGetNotFound(t *testing.T) {
	mux := setupMux(t)

	w := doRequest(mux, "GET", "/api/sleeps/99", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "Sleep record not found." {
		t.Errorf("body = %q", got)
	}
}

func TestHandleGetBadID(t *testing.T) {
	mux := setupMux(t)

	w := doRequest(mux, "GET", "/api/sleeps/abc", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleUpdate(t *testing.T) {
	mux := setupMux(t)
	createRecord(t, mux, "2025-01-01T22:00:00Z", "2025-01-02T06:00:00Z")

	w := doRequest(mux, "PUT", "/api/sleeps/1", sleep.UpdateRequest{
		Start: "2025-01-01T23:00:00Z",
		End:   "2025-01-02T07:00:00Z",
	})

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}

	get := doRequest(mux, "GET", "/api/sleeps/1", nil)
	var view sleep.View
	_ = json.NewDecoder(get.Body).Decode(&view)
	if view.Start != "2025-01-01T23:00:00Z" {
		t.Errorf("start = %q after update", view.Start)
	}
}

func TestHandleUpdateMissing(t *testing.T) {
	mux := setupMux(t)

	w := doRequest(mux, "PUT", "/api/sleeps/99", sleep.UpdateRequest{
		Start: "2025-01-01T22:00:00Z",
		End:   "2025-01-02T06:00:00Z",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "No sleep record with that ID found." {
		t.Errorf("body = %q", got)
	}
}

func TestHandleDelete(t *testing.T) {
	mux := setupMux(t)
	createRecord(t, mux, "2025-01-01T22:00:00Z", "2025-01-02T06:00:00Z")

	w := doRequest(mux, "DELETE", "/api/sleeps/1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}

	// Deleted records vanish from reads and a second delete is a 404.
	if get := doRequest(mux, "GET", "/api/sleeps/1", nil); get.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", get.Code)
	}
	again := doRequest(mux, "DELETE", "/api/sleeps/1", nil)
	if again.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", again.Code)
	}
	if got := strings.TrimSpace(again.Body.String()); got != "Sleep record not found." {
		t.Errorf("body = %q", got)
	}
}
