package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ioramishvili/GuestService/internal/cache"
	"github.com/ioramishvili/GuestService/internal/country"
	"github.com/ioramishvili/GuestService/internal/domain"
	"github.com/ioramishvili/GuestService/internal/guest"
	"github.com/ioramishvili/GuestService/internal/http/handlers"
	mw "github.com/ioramishvili/GuestService/internal/http/middleware"
	"github.com/ioramishvili/GuestService/pkg/logger"
)

const testToken = "test-token"

// ---------- Mocks ----------

type mockGuestRepo struct {
	nextID int64
	guests map[int64]*domain.Guest
}

func newMockGuestRepo() *mockGuestRepo {
	return &mockGuestRepo{nextID: 1, guests: make(map[int64]*domain.Guest)}
}

func (m *mockGuestRepo) Create(_ context.Context, g *domain.Guest) (*domain.Guest, error) {
	stored := *g
	stored.ID = m.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.nextID++
	m.guests[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (m *mockGuestRepo) GetByID(_ context.Context, id int64) (*domain.Guest, error) {
	g, ok := m.guests[id]
	if !ok {
		return nil, nil
	}
	out := *g
	return &out, nil
}

func (m *mockGuestRepo) Update(_ context.Context, g *domain.Guest) (*domain.Guest, error) {
	existing, ok := m.guests[g.ID]
	if !ok {
		return nil, nil
	}
	stored := *g
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	m.guests[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (m *mockGuestRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := m.guests[id]; !ok {
		return false, nil
	}
	delete(m.guests, id)
	return true, nil
}

func (m *mockGuestRepo) matches(g *domain.Guest, f domain.ListFilter) bool {
	if f.Email != "" {
		if g.Email == nil || !strings.Contains(strings.ToLower(*g.Email), strings.ToLower(f.Email)) {
			return false
		}
	}
	if f.Phone != "" && !strings.Contains(g.Phone, f.Phone) {
		return false
	}
	if f.Country != "" && g.Country != f.Country {
		return false
	}
	return true
}

func (m *mockGuestRepo) List(_ context.Context, f domain.ListFilter, limit, offset int) ([]domain.Guest, error) {
	var ids []int64
	for id, g := range m.guests {
		if m.matches(g, f) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []domain.Guest
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, *m.guests[ids[i]])
	}
	return out, nil
}

func (m *mockGuestRepo) Count(_ context.Context, f domain.ListFilter) (int, error) {
	count := 0
	for _, g := range m.guests {
		if m.matches(g, f) {
			count++
		}
	}
	return count, nil
}

func (m *mockGuestRepo) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	for id, g := range m.guests {
		if id != excludeID && g.Email != nil && *g.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockGuestRepo) PhoneExists(_ context.Context, phone string, excludeID int64) (bool, error) {
	for id, g := range m.guests {
		if id != excludeID && g.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

// ---------- Harness ----------

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	names, err := country.NewDisplayNames("en")
	if err != nil {
		t.Fatalf("NewDisplayNames: %v", err)
	}
	resolver := country.NewResolver(cache.NewMemory(), country.PhoneParser{}, names,
		"en", time.Minute, logger.Default())

	svc := guest.NewService(newMockGuestRepo(), resolver, logger.Default())
	h := handlers.NewGuestHandler(svc)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(mw.PartnerToken(testToken))
		r.Mount("/guest", h.Routes())
	})
	return r
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-partner-token", testToken)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createGuest(t *testing.T, router chi.Router, firstName, email, phone string) domain.GuestDTO {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/guest", map[string]string{
		"first_name": firstName,
		"last_name":  "Tester",
		"email":      email,
		"phone":      phone,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create guest: status = %d, body %s", w.Code, w.Body.String())
	}

	var dto domain.GuestDTO
	if err := json.Unmarshal(w.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return dto
}

// ---------- Tests ----------

func TestPartnerTokenRequired(t *testing.T) {
	router := newTestRouter(t)

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/guest"},
		{http.MethodPost, "/api/guest"},
		{http.MethodGet, "/api/guest/1"},
		{http.MethodPut, "/api/guest/1"},
		{http.MethodDelete, "/api/guest/1"},
	}

	for _, rq := range requests {
		t.Run(rq.method+" "+rq.path, func(t *testing.T) {
			req := httptest.NewRequest(rq.method, rq.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("missing token: status = %d, want 401", w.Code)
			}

			req = httptest.NewRequest(rq.method, rq.path, nil)
			req.Header.Set("x-partner-token", "wrong-token")
			w = httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("wrong token: status = %d, want 401", w.Code)
			}
		})
	}
}

func TestCreateGuest(t *testing.T) {
	router := newTestRouter(t)

	dto := createGuest(t, router, "Ivan", "ivanov@example.com", "+79123456789")

	if dto.Country != "Russia" {
		t.Errorf("country = %q, want %q", dto.Country, "Russia")
	}
	if dto.Email == nil || *dto.Email != "ivanov@example.com" {
		t.Errorf("email = %v, want ivanov@example.com", dto.Email)
	}

	tsFormat := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
	if !tsFormat.MatchString(dto.CreatedAt) {
		t.Errorf("created_at = %q, want Y-m-d H:i:s format", dto.CreatedAt)
	}
	if !tsFormat.MatchString(dto.UpdatedAt) {
		t.Errorf("updated_at = %q, want Y-m-d H:i:s format", dto.UpdatedAt)
	}
}

func TestCreateGuestInvalidJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/guest", strings.NewReader("{not json"))
	req.Header.Set("x-partner-token", testToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateGuestValidationErrors(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/guest", map[string]string{
		"first_name": "Ivan",
		"last_name":  "Ivanov",
		"phone":      "+0000000000",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", w.Code, w.Body.String())
	}

	var errs []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &errs); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if len(errs) == 0 || errs[0].Field != "country" {
		t.Errorf("errors = %v, want a country field error", errs)
	}
}

func TestCreateGuestDuplicatePhone(t *testing.T) {
	router := newTestRouter(t)

	createGuest(t, router, "Ivan", "ivanov@example.com", "+79123456789")

	w := doJSON(t, router, http.MethodPost, "/api/guest", map[string]string{
		"first_name": "Petr",
		"last_name":  "Petrov",
		"email":      "petrov@example.com",
		"phone":      "+79123456789",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestGetGuestNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/guest/99", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "99") {
		t.Errorf("body = %s, want the id in the message", w.Body.String())
	}
}

func TestGuestLifecycle(t *testing.T) {
	router := newTestRouter(t)

	created := createGuest(t, router, "Ivan", "ivanov@example.com", "+79123456789")
	path := fmt.Sprintf("/api/guest/%d", created.ID)

	w := doJSON(t, router, http.MethodGet, path, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET: status = %d, want 200", w.Code)
	}

	w = doJSON(t, router, http.MethodPut, path, map[string]string{"first_name": "Petr"})
	if w.Code != http.StatusOK {
		t.Fatalf("PUT: status = %d, body %s", w.Code, w.Body.String())
	}
	var updated domain.GuestDTO
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	if updated.FirstName != "Petr" {
		t.Errorf("first_name = %q, want %q", updated.FirstName, "Petr")
	}
	if updated.Country != "Russia" {
		t.Errorf("country = %q, want preserved %q", updated.Country, "Russia")
	}

	w = doJSON(t, router, http.MethodDelete, path, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("DELETE: status = %d, want 204", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("DELETE: body = %q, want empty", w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, path, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("GET after delete: status = %d, want 404", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, path, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second DELETE: status = %d, want 404", w.Code)
	}
}

func TestPatchUpdatesGuest(t *testing.T) {
	router := newTestRouter(t)

	created := createGuest(t, router, "Ivan", "ivanov@example.com", "+79123456789")

	w := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/guest/%d", created.ID),
		map[string]string{"country": "US"})
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH: status = %d, body %s", w.Code, w.Body.String())
	}

	var updated domain.GuestDTO
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if updated.Country != "United States" {
		t.Errorf("country = %q, want normalized display name", updated.Country)
	}
}

func TestUpdateGuestNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/guest/42", map[string]string{"first_name": "X"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestNonNumericIDIsNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/guest/abc", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListGuests(t *testing.T) {
	router := newTestRouter(t)

	createGuest(t, router, "Ivan", "ivanov@example.com", "+79123456781")
	createGuest(t, router, "Petr", "petrov@example.com", "+79123456782")
	createGuest(t, router, "John", "smith@example.com", "+12125551234")

	w := doJSON(t, router, http.MethodGet, "/api/guest?pageSize=2&page=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var res struct {
		TotalCount  int               `json:"totalCount"`
		PageCount   int               `json:"pageCount"`
		CurrentPage int               `json:"currentPage"`
		PerPage     int               `json:"perPage"`
		Guests      []domain.GuestDTO `json:"guests"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode list response: %v", err)
	}

	if res.TotalCount != 3 || res.PageCount != 2 || res.CurrentPage != 2 || res.PerPage != 2 {
		t.Errorf("envelope = %+v, want total 3, pages 2, current 2, perPage 2", res)
	}
	if len(res.Guests) != 1 {
		t.Errorf("len(guests) = %d, want 1 on last page", len(res.Guests))
	}

	w = doJSON(t, router, http.MethodGet, "/api/guest?country=Russia", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if res.TotalCount != 2 {
		t.Errorf("country filter: totalCount = %d, want 2", res.TotalCount)
	}

	w = doJSON(t, router, http.MethodGet, "/api/guest?email=smith", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if res.TotalCount != 1 || res.Guests[0].FirstName != "John" {
		t.Errorf("email filter returned %+v", res)
	}
}
