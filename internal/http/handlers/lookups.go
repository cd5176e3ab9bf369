package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/catalogue-admin/internal/domain"
	"github.com/tbourn/catalogue-admin/internal/http/middleware"
	"github.com/tbourn/catalogue-admin/internal/providers"
	"github.com/tbourn/catalogue-admin/internal/utils"
)

// maxUserLookup caps one /users request; each id ends up in a single
// upstream id__in query.
const maxUserLookup = 200

// Lookups serves the reference tables: status and type codes, users, and
// the cache reset used after bulk upstream changes.
type Lookups struct {
	statuses *providers.StatusResolver
	users    *providers.UserResolver
	reset    func()
}

// NewLookups binds the lookup handlers. reset clears every cache and view.
func NewLookups(statuses *providers.StatusResolver, users *providers.UserResolver, reset func()) *Lookups {
	return &Lookups{statuses: statuses, users: users, reset: reset}
}

// Mount registers the lookup routes on g.
func (h *Lookups) Mount(g *gin.RouterGroup) {
	g.GET("/statuses", h.StatusKinds)
	g.GET("/statuses/:kind", h.Statuses)
	g.GET("/users", h.Users)
	g.GET("/users/:id", h.User)
	g.POST("/cache/reset", h.Reset)
}

// StatusKinds godoc
// @Summary     List status tables
// @Tags        Lookups
// @Produce     json
// @Success     200 {array} string
// @Router      /statuses [get]
func (h *Lookups) StatusKinds(c *gin.Context) {
	kinds := providers.StatusKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	ok(c, http.StatusOK, names)
}

// Statuses godoc
// @Summary     Status table
// @Description Cached after the first fetch; refresh=true refetches.
// @Tags        Lookups
// @Produce     json
// @Param       kind     path  string true  "Status table" example(catalogue_entry_status)
// @Param       refresh  query bool   false "Refetch the table"
// @Success     200 {array}  domain.RecordStatus
// @Failure     400 {object} handlers.ErrorResponse "Unknown table"
// @Failure     502 {object} handlers.ErrorResponse "Upstream failure"
// @Router      /statuses/{kind} [get]
func (h *Lookups) Statuses(c *gin.Context) {
	kind, err := providers.ParseStatusKind(c.Param("kind"))
	if err != nil {
		failErr(c, "status", err)
		return
	}
	var rows []domain.RecordStatus
	if refresh, _ := strconv.ParseBool(c.Query("refresh")); refresh {
		rows, err = h.statuses.FetchStatuses(c.Request.Context(), kind)
	} else {
		rows, err = h.statuses.Statuses(c.Request.Context(), kind)
	}
	if err != nil {
		failErr(c, "status", err)
		return
	}
	ok(c, http.StatusOK, rows)
}

// Users godoc
// @Summary     Look up users
// @Description One upstream request per list; returns the union of matches.
// @Tags        Lookups
// @Produce     json
// @Param       ids        query string false "Comma-separated ids" example(10,11)
// @Param       usernames  query string false "Comma-separated usernames" example(ann,bob)
// @Success     200 {array}  domain.User
// @Failure     400 {object} handlers.ErrorResponse "Bad ids"
// @Router      /users [get]
func (h *Lookups) Users(c *gin.Context) {
	ids, err := utils.ParseIDs(c.QueryArray("ids")...)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	names := utils.SplitList(c.QueryArray("usernames")...)
	if len(ids)+len(names) > maxUserLookup {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "too many users requested")
		return
	}
	users, err := h.users.FetchUsers(c.Request.Context(), providers.UserFilter{IDs: ids, Usernames: names})
	if err != nil {
		failErr(c, providers.KindUser, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	ok(c, http.StatusOK, users)
}

// User godoc
// @Summary     Get a user
// @Tags        Lookups
// @Produce     json
// @Param       id  path int true "User id" minimum(1)
// @Success     200 {object} domain.User
// @Failure     404 {object} handlers.ErrorResponse "Not found"
// @Router      /users/{id} [get]
func (h *Lookups) User(c *gin.Context) {
	id, good := pathID(c)
	if !good {
		return
	}
	u, err := h.users.GetOrFetch(c.Request.Context(), id)
	if err != nil {
		failErr(c, providers.KindUser, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// Reset godoc
// @Summary     Drop cached state
// @Description Clears status tables, every superset cache and every view.
// @Tags        Lookups
// @Success     204 {string} string "No Content"
// @Router      /cache/reset [post]
func (h *Lookups) Reset(c *gin.Context) {
	h.reset()
	middleware.LoggerFrom(c).Info().Msg("caches reset")
	noContent(c)
}
