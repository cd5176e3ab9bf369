package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/catalogue-admin/internal/config"
	"github.com/tbourn/catalogue-admin/internal/domain"
	"github.com/tbourn/catalogue-admin/internal/http/middleware"
	"github.com/tbourn/catalogue-admin/internal/providers"
	"github.com/tbourn/catalogue-admin/internal/repo"
	"github.com/tbourn/catalogue-admin/internal/transport"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func page(rows ...string) string {
	return fmt.Sprintf(`{"count":%d,"next":null,"previous":null,"results":[%s]}`, len(rows), strings.Join(rows, ","))
}

func labelPage(ls ...string) string {
	rows := make([]string, len(ls))
	for i, l := range ls {
		rows[i] = fmt.Sprintf(`{"id":%d,"label":%q}`, i+1, l)
	}
	return page(rows...)
}

// upstream is a minimal catalogue API: status tables, users, two entries
// and a notification collection that counts creates.
type upstream struct {
	srv     *httptest.Server
	creates atomic.Int32
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	fixed := map[string]string{
		"/api/catalogue/entries/status/":             labelPage("Draft", "Locked", "Declined"),
		"/api/catalogue/layers/submissions/status/":  labelPage("Submitted", "Accepted", "Rejected"),
		"/api/catalogue/layers/subscriptions/status/": labelPage("Draft", "Locked"),
		"/api/catalogue/layers/subscriptions/types/": labelPage("WMS", "WFS", "PostGIS"),
		"/api/catalogue/notifications/types/":        labelPage("On publish", "On submission"),
		"/api/publish/entries/status/":               labelPage("Draft", "Published"),
		"/api/accounts/users/": page(
			`{"id":10,"username":"ann","first_name":"Ann","last_name":"Lee"}`,
			`{"id":12,"username":"cy"}`,
		),
		"/api/catalogue/entries/": page(
			`{"id":1,"name":"Roads","status":1,"custodian":10,"assigned_to":null,"editors":[]}`,
			`{"id":2,"name":"Rivers","status":2,"custodian":10,"assigned_to":12,"editors":[]}`,
		),
	}
	mux := http.NewServeMux()
	for path, body := range fixed {
		mux.HandleFunc("GET "+path, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		})
	}
	mux.HandleFunc("POST /api/catalogue/notifications/", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		in["id"] = 40 + int(u.creates.Add(1))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	})
	u.srv = httptest.NewServer(mux)
	t.Cleanup(u.srv.Close)
	return u
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:     "/api/v1",
		DefaultPageSize: 25,
		RateRPS:         100,
		RateBurst:       50,
		IdempotencyTTL:  time.Hour,
		OTEL:            config.OTELConfig{ServiceName: "test-svc"},
	}
}

func newRouter(t *testing.T, cfg config.Config) (*gin.Engine, *upstream) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	up := newUpstream(t)
	client, err := transport.New(transport.Options{BaseURL: up.srv.URL + "/api", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("transport: %v", err)
	}
	r := gin.New()
	RegisterRoutes(r, newTestDB(t), providers.NewRegistry(client, cfg.DefaultPageSize), cfg)
	return r, up
}

func serve(r *gin.Engine, method, target, body string, hdr ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_HealthMetricsAndFallbacks(t *testing.T) {
	r, _ := newRouter(t, testConfig())

	w := serve(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("GET /health = %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing X-Request-ID")
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}

	w = serve(r, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("GET /metrics = %d", w.Code)
	}

	if w := serve(r, http.MethodGet, "/nope", ""); w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope = %d", w.Code)
	}
	if w := serve(r, http.MethodPost, "/health", ""); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health = %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/swagger/index.html", ""); w.Code != http.StatusNotFound {
		t.Fatalf("swagger disabled but served: %d", w.Code)
	}
}

func TestRegisterRoutes_Swagger(t *testing.T) {
	cfg := testConfig()
	cfg.SwaggerEnabled = true
	r, _ := newRouter(t, cfg)

	w := serve(r, http.MethodGet, "/swagger/doc.json", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/api/v1") {
		t.Fatalf("doc.json = %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_CORS(t *testing.T) {
	cfg := testConfig()
	r, _ := newRouter(t, cfg)
	w := serve(r, http.MethodGet, "/health", "", "Origin", "http://anywhere.test")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-all ACAO = %q", got)
	}

	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	r, _ = newRouter(t, cfg)
	w = serve(r, http.MethodGet, "/health", "", "Origin", "http://example.com")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("allowlist ACAO = %q", got)
	}
	w = serve(r, http.MethodGet, "/health", "", "Origin", "http://evil.test")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin echoed: %q", got)
	}
}

func TestRegisterRoutes_HydratedReadsThroughUpstream(t *testing.T) {
	r, _ := newRouter(t, testConfig())

	w := serve(r, http.MethodGet, "/api/v1/catalogue-entries/2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get entry: %d %s", w.Code, w.Body.String())
	}
	var e domain.CatalogueEntry
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Name != "Rivers" || e.Status.Label != "Locked" || e.Custodian == nil || e.Custodian.Username != "ann" || e.AssignedTo == nil || e.AssignedTo.Username != "cy" {
		t.Fatalf("entry = %+v", e)
	}

	w = serve(r, http.MethodGet, "/api/v1/statuses/catalogue_entry_status", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Declined") {
		t.Fatalf("statuses: %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_IdempotentCreatePersists(t *testing.T) {
	r, up := newRouter(t, testConfig())
	body := `{"name":"Watch","type":1,"email":"ann@example.org","active":true,"catalogue_entry":2}`
	hdr := []string{middleware.HeaderIdempotencyKey, "create-1", middleware.UserIDHeader, "u1"}

	w := serve(r, http.MethodPost, "/api/v1/notifications", body, hdr...)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != "/api/v1/notifications/41" {
		t.Fatalf("Location = %q", got)
	}

	w = serve(r, http.MethodPost, "/api/v1/notifications", body, hdr...)
	if w.Code != http.StatusOK || w.Header().Get(middleware.HeaderIdempotentReplayed) != "true" {
		t.Fatalf("replay: %d %v", w.Code, w.Header())
	}
	if !strings.Contains(w.Body.String(), `"id":41`) {
		t.Fatalf("replay body = %s", w.Body.String())
	}

	// Another caller with the same key is a fresh create.
	w = serve(r, http.MethodPost, "/api/v1/notifications", body, middleware.HeaderIdempotencyKey, "create-1", middleware.UserIDHeader, "u2")
	if w.Code != http.StatusCreated {
		t.Fatalf("second user: %d %s", w.Code, w.Body.String())
	}
	if n := up.creates.Load(); n != 2 {
		t.Fatalf("upstream creates = %d; want 2", n)
	}
}

func TestLimitBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	if w := serve(r, http.MethodPost, "/echo", "0123456789AB"); w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
	if w := serve(r, http.MethodPost, "/echo", "0123"); w.Code != http.StatusOK {
		t.Fatalf("small body: %d", w.Code)
	}
}

func TestGroupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })
	groupWithPrefix(r, "/api").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for target, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		w := serve(r, http.MethodGet, target, "")
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Fatalf("GET %s = %d %q", target, w.Code, w.Body.String())
		}
	}
}
