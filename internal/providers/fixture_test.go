package providers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/tbourn/catalogue-admin/internal/transport"
)

type route func(r *http.Request) (int, any)

// upstream is a fake catalogue API that records every request.
type upstream struct {
	t      *testing.T
	srv    *httptest.Server
	mu     sync.Mutex
	routes map[string]route
	calls  []*http.Request
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{t: t, routes: map[string]route{}}
	u.srv = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.calls = append(u.calls, r)
	h, ok := u.routes[r.Method+" "+r.URL.Path]
	u.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	status, body := h(r)
	if body == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (u *upstream) handle(method, path string, h route) {
	u.mu.Lock()
	u.routes[method+" /"+path] = h
	u.mu.Unlock()
}

// list serves results as a one-page envelope.
func (u *upstream) list(path string, results ...map[string]any) {
	u.handle(http.MethodGet, path, func(*http.Request) (int, any) {
		return http.StatusOK, envelope(results...)
	})
}

// paged serves results in pages of at most size rows, honouring offset and
// filtering on id__in when present. The backend's cap wins over limit.
func (u *upstream) paged(path string, size int, results ...map[string]any) {
	u.handle(http.MethodGet, path, func(r *http.Request) (int, any) {
		rows := results
		if raw := r.URL.Query().Get("id__in"); raw != "" {
			want := map[string]bool{}
			for _, id := range splitIDs(raw) {
				want[id] = true
			}
			rows = nil
			for _, res := range results {
				if want[jsonInt(res["id"])] {
					rows = append(rows, res)
				}
			}
		}
		off, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		off = min(off, len(rows))
		end := min(off+size, len(rows))
		env := envelope(rows[off:end]...)
		env["count"] = len(rows)
		if end < len(rows) {
			env["next"] = "http://upstream/" + path + "?offset=" + strconv.Itoa(end)
		}
		return http.StatusOK, env
	})
}

// queries returns the queries of every request made to method and path.
func (u *upstream) queries(method, path string) []url.Values {
	u.mu.Lock()
	defer u.mu.Unlock()
	var out []url.Values
	for _, r := range u.calls {
		if r.Method == method && r.URL.Path == "/"+path {
			out = append(out, r.URL.Query())
		}
	}
	return out
}

func (u *upstream) total() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

func (u *upstream) client() transport.API {
	u.t.Helper()
	c, err := transport.New(transport.Options{BaseURL: u.srv.URL})
	if err != nil {
		u.t.Fatalf("transport.New: %v", err)
	}
	return c
}

func envelope(results ...map[string]any) map[string]any {
	if results == nil {
		results = []map[string]any{}
	}
	return map[string]any{"count": len(results), "next": nil, "previous": nil, "results": results}
}

// byIDs filters results on the id__in query parameter.
func byIDs(results ...map[string]any) route {
	return func(r *http.Request) (int, any) {
		want := map[string]bool{}
		for _, id := range splitIDs(r.URL.Query().Get("id__in")) {
			want[id] = true
		}
		var out []map[string]any
		for _, res := range results {
			if want[jsonInt(res["id"])] {
				out = append(out, res)
			}
		}
		return http.StatusOK, envelope(out...)
	}
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func jsonInt(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func statusRows(labels ...string) []map[string]any {
	out := make([]map[string]any, len(labels))
	for i, l := range labels {
		out[i] = map[string]any{"id": i + 1, "label": l}
	}
	return out
}

// seedCatalogue installs status tables, three users and two catalogue
// entries.
func seedCatalogue(u *upstream) {
	u.list("catalogue/entries/status/", statusRows("Draft", "Locked", "Declined")...)
	u.list("catalogue/layers/submissions/status/", statusRows("Submitted", "Accepted", "Rejected")...)
	u.list("catalogue/layers/subscriptions/status/", statusRows("Draft", "Locked")...)
	u.list("catalogue/layers/subscriptions/types/", statusRows("WMS", "WFS", "PostGIS")...)
	u.list("catalogue/notifications/types/", statusRows("On publish", "On submission")...)
	u.list("publish/entries/status/", statusRows("Draft", "Published")...)

	u.handle(http.MethodGet, "accounts/users/", byIDs(
		map[string]any{"id": 10, "username": "ann", "first_name": "Ann", "last_name": "Lee"},
		map[string]any{"id": 11, "username": "bob"},
		map[string]any{"id": 12, "username": "cy"},
	))
	u.handle(http.MethodGet, "catalogue/entries/", byIDs(
		map[string]any{"id": 1, "name": "Roads", "status": 1, "custodian": 10, "assigned_to": nil, "editors": []int{11}},
		map[string]any{"id": 2, "name": "Rivers", "status": 2, "custodian": 10, "assigned_to": 12, "editors": []int{}},
	))
}
