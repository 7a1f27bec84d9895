package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"haru/internal/kv"
	"haru/internal/store"
	"haru/internal/task"
)

func newTestServer(t *testing.T) (*task.Repository, http.Handler) {
	t.Helper()
	st, err := store.New(kv.NewMemory(), "test_tasks", nil)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	clock := time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)
	n := 0
	repo := task.NewRepository(context.Background(), st,
		task.WithClock(func() time.Time {
			n++
			return clock.Add(time.Duration(n) * time.Second)
		}),
	)
	return repo, newServer(repo, log.New(io.Discard), func() time.Time { return clock })
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListTasks(t *testing.T) {
	repo, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/tasks", `{"title":"  Pay rent ","date":"2024-03-05"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created task.Task
	if err := sonic.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Title != "Pay rent" || created.Done || created.ID == "" {
		t.Fatalf("unexpected task %+v", created)
	}
	if _, err := repo.Create(context.Background(), "Dentist", "2024-03-01"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec = do(t, h, http.MethodGet, "/api/tasks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp tasksResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || resp.Tasks[0].Title != "Dentist" || resp.Tasks[1].Title != "Pay rent" {
		t.Fatalf("unexpected list %+v", resp)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	repo, h := newTestServer(t)
	cases := []string{
		`{"title":"   ","date":"2024-03-05"}`,
		`{"title":"Pay rent","date":""}`,
		`{"title":"Pay rent","date":"2024-02-30"}`,
		`{"title":"Pay rent","date":"2024-03-05","extra":1}`,
		`not json`,
	}
	for _, body := range cases {
		if rec := do(t, h, http.MethodPost, "/api/tasks", body); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
	}
	if n := len(repo.List()); n != 0 {
		t.Fatalf("expected no tasks, got %d", n)
	}
}

func TestPatchTogglesAndRenames(t *testing.T) {
	repo, h := newTestServer(t)
	a, _ := repo.Create(context.Background(), "Pay rent", "2024-03-05")
	b, _ := repo.Create(context.Background(), "Dentist", "2024-03-10")

	rec := do(t, h, http.MethodPatch, "/api/tasks/"+a.ID, `{"done":true}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodPatch, "/api/tasks/"+b.ID, `{"title":"Dentist 10am"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/tasks?status=open", "")
	var resp tasksResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || resp.Tasks[0].Title != "Dentist 10am" {
		t.Fatalf("unexpected open list %+v", resp)
	}

	rec = do(t, h, http.MethodGet, "/api/tasks", "")
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Tasks[1].ID != a.ID || !resp.Tasks[1].Done {
		t.Fatalf("expected done task last, got %+v", resp.Tasks)
	}
}

func TestPatchValidation(t *testing.T) {
	repo, h := newTestServer(t)
	a, _ := repo.Create(context.Background(), "Pay rent", "2024-03-05")

	if rec := do(t, h, http.MethodPatch, "/api/tasks/"+a.ID, `{"title":" "}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank title, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPatch, "/api/tasks/missing", `{"done":true}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	got, _ := repo.Get(a.ID)
	if got.Title != "Pay rent" {
		t.Fatalf("title changed: %q", got.Title)
	}
}

func TestDeleteTask(t *testing.T) {
	repo, h := newTestServer(t)
	a, _ := repo.Create(context.Background(), "Pay rent", "2024-03-05")

	if rec := do(t, h, http.MethodDelete, "/api/tasks/"+a.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/tasks/"+a.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
	if len(repo.List()) != 0 {
		t.Fatalf("expected empty repository")
	}
}

func TestCalendarMonth(t *testing.T) {
	repo, h := newTestServer(t)
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		if _, err := repo.Create(context.Background(), title, "2024-03-05"); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rec := do(t, h, http.MethodGet, "/api/calendar/2024/3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp calendarResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Month != "2024-03" || resp.Title != "March 2024" {
		t.Fatalf("unexpected header %+v", resp)
	}
	if resp.Leading != 5 || len(resp.Days) != 31 {
		t.Fatalf("expected 5 leading blanks and 31 days, got %d/%d", resp.Leading, len(resp.Days))
	}
	day := resp.Days[4]
	if !day.Today || len(day.Chips) != 4 || day.Overflow != 1 {
		t.Fatalf("unexpected day 5 %+v", day)
	}

	for _, path := range []string{"/api/calendar/2024/13", "/api/calendar/abc/3"} {
		if rec := do(t, h, http.MethodGet, path, ""); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestHealthz(t *testing.T) {
	_, h := newTestServer(t)
	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBindUsesStrictBoundedDecoder(t *testing.T) {
	repo, _ := newTestServer(t)
	e := newServer(repo, log.New(io.Discard), time.Now)
	e.POST("/bind", func(c echo.Context) error {
		var req createRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		return c.String(http.StatusOK, req.Title)
	})

	rec := do(t, e, http.MethodPost, "/bind", `{"title":"Pay rent","date":"2024-03-05"}`)
	if rec.Code != http.StatusOK || rec.Body.String() != "Pay rent" {
		t.Fatalf("expected bound title, got %d %q", rec.Code, rec.Body.String())
	}
	if rec := do(t, e, http.MethodPost, "/bind", `{"title":"Pay rent","owner":"x"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
	big := `{"title":"` + strings.Repeat("x", maxBodySize) + `","date":"2024-03-05"}`
	if rec := do(t, e, http.MethodPost, "/bind", big); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized body, got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodPost, "/api/tasks", big); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized create, got %d", rec.Code)
	}
	if n := len(repo.List()); n != 0 {
		t.Fatalf("expected no tasks, got %d", n)
	}
}
