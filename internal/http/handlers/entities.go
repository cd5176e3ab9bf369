package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/catalogue-admin/internal/cache"
	"github.com/tbourn/catalogue-admin/internal/domain"
	"github.com/tbourn/catalogue-admin/internal/filter"
	"github.com/tbourn/catalogue-admin/internal/http/middleware"
)

// HeaderLocalID lets the admin UI correlate a create with its optimistic
// row. A UUID is generated when absent.
const HeaderLocalID = "X-Local-ID"

// EntityService is the provider surface the CRUD and view handlers need.
// N is the create payload and P the partial update of the record kind.
type EntityService[T domain.Entity, N, P any] interface {
	Kind() string
	Schema() *filter.Schema
	Store() *cache.Store[T]
	FetchList(ctx context.Context, f *filter.Filter) (domain.Page[T], error)
	FetchOne(ctx context.Context, id int) (T, error)
	GetOrFetch(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, in N) (T, error)
	Update(ctx context.Context, id int, patch P) (T, error)
	Remove(ctx context.Context, id int) (bool, error)
}

// Entity serves one record kind.
type Entity[T domain.Entity, N, P any] struct {
	svc      EntityService[T, N, P]
	pageSize int
}

// NewEntity binds handlers to svc. pageSize is the list default when the
// query carries no limit.
func NewEntity[T domain.Entity, N, P any](svc EntityService[T, N, P], pageSize int) *Entity[T, N, P] {
	return &Entity[T, N, P]{svc: svc, pageSize: pageSize}
}

// Mount registers the CRUD routes on g and the view routes on views.
func (h *Entity[T, N, P]) Mount(g, views *gin.RouterGroup) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	views.GET("", h.View)
	views.DELETE("", h.ResetView)
	views.PUT("/filter", h.SetFilter)
	views.POST("/sort", h.Sort)
	views.PUT("/page", h.SetPage)
}

// List godoc
// @Summary     List records
// @Description Fetches one page from the catalogue API. Query parameters use the upstream form: limit, offset, order_by, snake_case fields, <field>__in for id lists and <field>_after / <field>_before for date ranges.
// @Tags        Records
// @Produce     json
// @Param       kind      path   string true  "Record collection" Enums(catalogue-entries, layer-submissions, layer-subscriptions, notifications, publish-entries)
// @Param       limit     query  int    false "Page size"
// @Param       offset    query  int    false "Offset"
// @Param       order_by  query  string false "Sort column, '-' prefix for descending" example(-updated_at)
// @Success     200 {object} handlers.PageDoc
// @Failure     400 {object} handlers.ErrorResponse "Bad filter"
// @Failure     502 {object} handlers.ErrorResponse "Upstream failure"
// @Router      /{kind} [get]
func (h *Entity[T, N, P]) List(c *gin.Context) {
	f, err := filter.FromQuery(h.svc.Schema(), c.Request.URL.Query(), h.pageSize)
	if err != nil {
		failErr(c, h.svc.Kind(), err)
		return
	}
	page, err := h.svc.FetchList(c.Request.Context(), f)
	if err != nil {
		failErr(c, h.svc.Kind(), err)
		return
	}
	ok(c, http.StatusOK, page)
}

// Get godoc
// @Summary     Get one record
// @Description Served from the superset cache when present; refresh=true forces a fetch.
// @Tags        Records
// @Produce     json
// @Param       kind     path  string true  "Record collection"
// @Param       id       path  int    true  "Record id" minimum(1)
// @Param       refresh  query bool   false "Bypass the cache"
// @Success     200 {object} object
// @Failure     400 {object} handlers.ErrorResponse "Bad id"
// @Failure     404 {object} handlers.ErrorResponse "Not found"
// @Failure     502 {object} handlers.ErrorResponse "Upstream failure"
// @Router      /{kind}/{id} [get]
func (h *Entity[T, N, P]) Get(c *gin.Context) {
	id, good := pathID(c)
	if !good {
		return
	}
	var (
		item T
		err  error
	)
	if refresh, _ := strconv.ParseBool(c.Query("refresh")); refresh {
		item, err = h.svc.FetchOne(c.Request.Context(), id)
	} else {
		item, err = h.svc.GetOrFetch(c.Request.Context(), id)
	}
	if err != nil {
		failErr(c, h.svc.Kind(), err)
		return
	}
	ok(c, http.StatusOK, item)
}

// Create godoc
// @Summary     Create a record
// @Description Validates and creates a record. With Idempotency-Key, a retry within the TTL returns the original record with 200.
// @Tags        Records
// @Accept      json
// @Produce     json
// @Param       kind             path   string true  "Record collection"
// @Param       Idempotency-Key  header string false "Retry key"
// @Param       X-Local-ID       header string false "Client-side id of the optimistic row"
// @Success     201 {object} object
// @Success     200 {object} object "Idempotent replay"
// @Failure     400 {object} handlers.ErrorResponse "Bad body"
// @Failure     422 {object} handlers.ErrorResponse "Validation failed"
// @Failure     502 {object} handlers.ErrorResponse "Upstream failure"
// @Router      /{kind} [post]
func (h *Entity[T, N, P]) Create(c *gin.Context) {
	ctx := c.Request.Context()
	if id, replay := middleware.ReplayOf(c); replay {
		item, err := h.svc.GetOrFetch(ctx, id)
		if err != nil {
			failErr(c, h.svc.Kind(), err)
			return
		}
		ok(c, http.StatusOK, item)
		return
	}

	var in N
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if l, isLocal := any(&in).(interface{ SetLocalID(string) }); isLocal {
		localID := c.GetHeader(HeaderLocalID)
		if localID == "" {
			localID = uuid.NewString()
		}
		l.SetLocalID(localID)
	}

	item, err := h.svc.Create(ctx, in)
	if err != nil {
		failErr(c, h.svc.Kind(), err)
		return
	}
	middleware.MarkCreated(c, item.PrimaryKey())
	c.Header("Location", c.FullPath()+"/"+strconv.Itoa(item.PrimaryKey()))
	ok(c, http.StatusCreated, item)
}

// Update godoc
// @Summary     Update a record
// @Description Applies a partial update; omitted fields are left untouched.
// @Tags        Records
// @Accept      json
// @Produce     json
// @Param       kind  path  string true "Record collection"
// @Param       id    path  int    true "Record id" minimum(1)
// @Success     200 {object} object
// @Failure     400 {object} handlers.ErrorResponse "Bad body or id"
// @Failure     404 {object} handlers.ErrorResponse "Not found"
// @Failure     422 {object} handlers.ErrorResponse "Validation failed"
// @Router      /{kind}/{id} [patch]
func (h *Entity[T, N, P]) Update(c *gin.Context) {
	id, good := pathID(c)
	if !good {
		return
	}
	var patch P
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	item, err := h.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		failErr(c, h.svc.Kind(), err)
		return
	}
	ok(c, http.StatusOK, item)
}

// Delete godoc
// @Summary     Delete a record
// @Tags        Records
// @Param       kind  path  string true "Record collection"
// @Param       id    path  int    true "Record id" minimum(1)
// @Success     204 {string} string "No Content"
// @Failure     409 {object} handlers.ErrorResponse "Upstream refused the delete"
// @Failure     502 {object} handlers.ErrorResponse "Upstream unreachable"
// @Router      /{kind}/{id} [delete]
func (h *Entity[T, N, P]) Delete(c *gin.Context) {
	id, good := pathID(c)
	if !good {
		return
	}
	removed, err := h.svc.Remove(c.Request.Context(), id)
	if err != nil {
		failErr(c, h.svc.Kind(), err)
		return
	}
	if !removed {
		fail(c, http.StatusConflict, ErrCodeDeleteFailed, "catalogue API refused to delete "+h.svc.Kind()+" "+strconv.Itoa(id))
		return
	}
	noContent(c)
}

// pathID parses :id, writing a 400 when it is not a positive integer.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// PageDoc documents domain.Page for swag, which cannot render generics.
type PageDoc struct {
	Items      []any `json:"items"`
	Total      int   `json:"total" example:"42"`
	Offset     int   `json:"offset" example:"0"`
	Limit      int   `json:"limit" example:"25"`
	NextOffset *int  `json:"next_offset" example:"25"`
}
