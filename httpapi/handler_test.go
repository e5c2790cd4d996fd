package httpapi

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alecthomas/assert"
	"github.com/gin-gonic/gin"
	"github.com/gustapinto/go-todo-store/logger"
	"github.com/gustapinto/go-todo-store/todo"
	"github.com/gustapinto/go-todo-store/todo/snapshot"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, opts Options) (*gin.Engine, *todo.Store) {
	t.Helper()

	store, err := todo.NewStore(context.Background(), snapshot.NewMemory(nil))
	if err != nil {
		t.Fatalf("todo.NewStore() failed with '%s'", err)
	}

	log := logger.NewWithOutput(io.Discard, "todo-test", "debug")
	return NewRouter(store, log, opts), store
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal(%q) failed with '%s'", rec.Body.String(), err)
	}
}

func TestTodoLifecycle(t *testing.T) {
	router, _ := newTestRouter(t, Options{})

	rec := do(router, http.MethodPost, "/todos", `{"title":"Buy groceries","completed":true,"description":"I should buy groceries"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]string
	decodeBody(t, rec, &created)
	id := created["id"]
	assert.NotEqual(t, "", id)

	rec = do(router, http.MethodGet, "/todos/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var record todo.Record
	decodeBody(t, rec, &record)
	assert.Equal(t, todo.Record{ID: id, Title: "Buy groceries", Description: "I should buy groceries"}, record)

	rec = do(router, http.MethodPut, "/todos/"+id, `{"id":"hijacked","completed":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, "/todos/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &record)
	assert.Equal(t, todo.Record{ID: id, Title: "Buy groceries", Description: "I should buy groceries", Completed: true}, record)

	rec = do(router, http.MethodGet, "/todos", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var records []todo.Record
	decodeBody(t, rec, &records)
	assert.Equal(t, 1, len(records))

	rec = do(router, http.MethodDelete, "/todos/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, "/todos/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodGet, "/todos", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestNotFound(t *testing.T) {
	router, _ := newTestRouter(t, Options{})

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/todos/123", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPut, "/todos/123", `{"completed":true}`).Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/todos/123", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/unknown", "").Code)
}

func TestBadRequests(t *testing.T) {
	router, store := newTestRouter(t, Options{})

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/todos", `{"title":`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/todos", `{"title":"no description"}`).Code)

	id, err := store.Insert(context.Background(), "A", "B")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPut, "/todos/"+id, `{"title":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPut, "/todos/"+id, `[`).Code)

	records, err := store.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []todo.Record{{ID: id, Title: "A", Description: "B"}}, records)
}

type brokenStore struct{}

var errBroken = &todo.StorageError{Op: "list", Err: errors.New("disk failure")}

func (brokenStore) List(context.Context) ([]todo.Record, error) { return nil, errBroken }
func (brokenStore) Get(context.Context, string) (todo.Record, error) {
	return todo.Record{}, errBroken
}
func (brokenStore) Insert(context.Context, string, string) (string, error) { return "", errBroken }
func (brokenStore) Update(context.Context, string, todo.Patch) error      { return errBroken }
func (brokenStore) Delete(context.Context, string) error                  { return errBroken }

func TestStorageFailuresAreServerErrors(t *testing.T) {
	router := NewRouter(brokenStore{}, logger.NewWithOutput(io.Discard, "todo-test", "info"), Options{})

	tests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/todos", ""},
		{http.MethodGet, "/todos/1", ""},
		{http.MethodPost, "/todos", `{"title":"A","description":"B"}`},
		{http.MethodPut, "/todos/1", `{"completed":true}`},
		{http.MethodDelete, "/todos/1", ""},
	}
	for _, tc := range tests {
		rec := do(router, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, "%s %s", tc.method, tc.path)

		var body map[string]string
		decodeBody(t, rec, &body)
		assert.NotEqual(t, "", body["msg"])
		assert.False(t, strings.Contains(body["msg"], "disk failure"))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, Options{Metrics: NewMetrics(prometheus.NewRegistry())})

	do(router, http.MethodGet, "/todos", "")
	do(router, http.MethodGet, "/todos/missing", "")

	rec := do(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `todo_http_requests_total{method="GET",route="/todos",status="200"} 1`)
	assert.Contains(t, body, `todo_http_requests_total{method="GET",route="/todos/:id",status="404"} 1`)
	assert.Contains(t, body, "todo_http_request_duration_seconds")
}

func TestGzipResponses(t *testing.T) {
	router, store := newTestRouter(t, Options{})
	_, err := store.Insert(context.Background(), "A", "B")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(bytes.NewReader(rec.Body.Bytes()))
	assert.NoError(t, err)
	data, err := io.ReadAll(zr)
	assert.NoError(t, err)

	var records []todo.Record
	assert.NoError(t, json.Unmarshal(data, &records))
	assert.Equal(t, 1, len(records))
}
