package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/catalogue-admin/internal/http/middleware"
	"github.com/tbourn/catalogue-admin/internal/providers"
	"github.com/tbourn/catalogue-admin/internal/transport"
)

type call struct {
	method string
	path   string
	query  url.Values
	body   map[string]any
}

type reply func(c call) (int, any)

// fakeAPI is an in-process transport.API keyed by "METHOD path".
type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]reply
	calls  []call
}

func newFakeAPI() *fakeAPI { return &fakeAPI{routes: map[string]reply{}} }

func (f *fakeAPI) on(method, path string, r reply) {
	f.mu.Lock()
	f.routes[method+" "+path] = r
	f.mu.Unlock()
}

func (f *fakeAPI) Do(ctx context.Context, method, path string, query url.Values, body, out any) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, &transport.RequestError{Method: method, Path: path, Err: err}
	}
	c := call{method: method, path: path, query: query}
	if body != nil {
		b, _ := json.Marshal(body)
		_ = json.Unmarshal(b, &c.body)
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	r, ok := f.routes[method+" "+path]
	f.mu.Unlock()
	if !ok {
		return http.StatusNotFound, &transport.StatusError{Method: method, Path: path, StatusCode: http.StatusNotFound}
	}
	status, payload := r(c)
	if status < 200 || status > 299 {
		return status, &transport.StatusError{Method: method, Path: path, StatusCode: status}
	}
	if out != nil && payload != nil {
		b, _ := json.Marshal(payload)
		if err := json.Unmarshal(b, out); err != nil {
			return status, &transport.RequestError{Method: method, Path: path, Err: err}
		}
	}
	return status, nil
}

// count reports the calls made to method and path.
func (f *fakeAPI) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.method == method && c.path == path {
			n++
		}
	}
	return n
}

func (f *fakeAPI) last(method, path string) call {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if c := f.calls[i]; c.method == method && c.path == path {
			return c
		}
	}
	return call{}
}

func envelope(results ...map[string]any) map[string]any {
	if results == nil {
		results = []map[string]any{}
	}
	return map[string]any{"count": len(results), "next": nil, "previous": nil, "results": results}
}

func listOf(results ...map[string]any) reply {
	return func(call) (int, any) { return http.StatusOK, envelope(results...) }
}

// byID answers id__in batches and plain list queries from rows.
func byID(rows ...map[string]any) reply {
	return func(c call) (int, any) {
		raw := c.query.Get("id__in")
		if raw == "" {
			return http.StatusOK, envelope(rows...)
		}
		want := map[int]bool{}
		for _, s := range strings.Split(raw, ",") {
			n, _ := strconv.Atoi(s)
			want[n] = true
		}
		var out []map[string]any
		for _, r := range rows {
			if want[r["id"].(int)] {
				out = append(out, r)
			}
		}
		return http.StatusOK, envelope(out...)
	}
}

func labels(ls ...string) reply {
	rows := make([]map[string]any, len(ls))
	for i, l := range ls {
		rows[i] = map[string]any{"id": i + 1, "label": l}
	}
	return listOf(rows...)
}

var (
	roads  = map[string]any{"id": 1, "name": "Roads", "status": 1, "custodian": 10, "assigned_to": nil, "editors": []int{11}}
	rivers = map[string]any{"id": 2, "name": "Rivers", "status": 2, "custodian": 10, "assigned_to": 12, "editors": []int{}}
)

// seed installs the status tables, three users and two catalogue entries.
func seed(f *fakeAPI) {
	f.on("GET", "catalogue/entries/status/", labels("Draft", "Locked", "Declined"))
	f.on("GET", "catalogue/layers/submissions/status/", labels("Submitted", "Accepted", "Rejected"))
	f.on("GET", "catalogue/layers/subscriptions/status/", labels("Draft", "Locked"))
	f.on("GET", "catalogue/layers/subscriptions/types/", labels("WMS", "WFS", "PostGIS"))
	f.on("GET", "catalogue/notifications/types/", labels("On publish", "On submission"))
	f.on("GET", "publish/entries/status/", labels("Draft", "Published"))
	f.on("GET", "accounts/users/", byID(
		map[string]any{"id": 10, "username": "ann", "first_name": "Ann", "last_name": "Lee"},
		map[string]any{"id": 11, "username": "bob"},
		map[string]any{"id": 12, "username": "cy"},
	))
	f.on("GET", "catalogue/entries/", byID(roads, rivers))
}

type harness struct {
	api *fakeAPI
	reg *providers.Registry
	r   *gin.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	api := newFakeAPI()
	seed(api)
	reg := providers.NewRegistry(api, 25)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Identity(), middleware.Idempotency(middleware.IdempotencyOptions{}, newMemIdem()))
	g := r.Group("/api")
	NewEntity(reg.CatalogueEntries, 25).Mount(g.Group("/catalogue-entries"), g.Group("/views/catalogue-entries"))
	NewEntity(reg.Notifications, 25).Mount(g.Group("/notifications"), g.Group("/views/notifications"))
	NewLookups(reg.Statuses, reg.Users, reg.Reset).Mount(g)
	return &harness{api: api, reg: reg, r: r}
}

func (h *harness) do(method, target string, body any, hdr ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	h.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

type memIdem struct {
	mu   sync.Mutex
	recs map[string]int
}

func newMemIdem() *memIdem { return &memIdem{recs: map[string]int{}} }

func (m *memIdem) Lookup(_ context.Context, user, kind, key string, _ time.Time) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.recs[user+kind+key]
	return id, ok, nil
}

func (m *memIdem) Save(_ context.Context, user, kind, key string, id, _ int) error {
	m.mu.Lock()
	m.recs[user+kind+key] = id
	m.mu.Unlock()
	return nil
}
