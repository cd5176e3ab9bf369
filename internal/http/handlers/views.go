package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/catalogue-admin/internal/filter"
)

// ViewFilterRequest sets or clears one filter field of a view. Value uses
// the same text form as list queries; a date range is "after..before" with
// either side optional. An empty value clears the field.
type ViewFilterRequest struct {
	Field string `json:"field" binding:"required" example:"status"`
	Value string `json:"value" example:"2"`
}

// ViewSortRequest advances the sort cycle of one column.
type ViewSortRequest struct {
	Column string `json:"column" binding:"required" example:"updatedAt"`
}

// ViewPageRequest moves a view. A zero limit keeps the current page size.
type ViewPageRequest struct {
	Offset int `json:"offset" binding:"min=0" example:"25"`
	Limit  int `json:"limit" binding:"min=0,max=1000" example:"25"`
}

// View godoc
// @Summary     Current view
// @Description Returns the filtered page held by the kind's store. refresh=true refetches it first.
// @Tags        Views
// @Produce     json
// @Param       kind     path  string true  "Record collection"
// @Param       refresh  query bool   false "Refetch before returning"
// @Success     200 {object} handlers.ViewDoc
// @Failure     502 {object} handlers.ErrorResponse "Upstream failure"
// @Router      /views/{kind} [get]
func (h *Entity[T, N, P]) View(c *gin.Context) {
	st := h.svc.Store()
	if refresh, _ := strconv.ParseBool(c.Query("refresh")); refresh {
		if err := st.Refresh(c.Request.Context()); err != nil {
			failErr(c, h.svc.Kind(), err)
			return
		}
	}
	ok(c, http.StatusOK, st.Snapshot())
}

// SetFilter godoc
// @Summary     Set a view filter
// @Description Assigns one field, returns to the first page and refetches once.
// @Tags        Views
// @Accept      json
// @Produce     json
// @Param       kind  path string                     true "Record collection"
// @Param       body  body handlers.ViewFilterRequest true "Field and value"
// @Success     200 {object} handlers.ViewDoc
// @Failure     400 {object} handlers.ErrorResponse "Unknown field or bad value"
// @Router      /views/{kind}/filter [put]
func (h *Entity[T, N, P]) SetFilter(c *gin.Context) {
	var req ViewFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "field is required")
		return
	}
	fld, known := h.svc.Schema().Field(req.Field)
	if !known {
		fail(c, http.StatusBadRequest, ErrCodeBadFilter, "unknown filter field "+strconv.Quote(req.Field))
		return
	}
	v, err := filter.ParseValue(fld.Kind, req.Value)
	if err != nil {
		failErr(c, h.svc.Kind(), err)
		return
	}
	st := h.svc.Store()
	if err := st.SetFilter(c.Request.Context(), req.Field, v); err != nil {
		failErr(c, h.svc.Kind(), err)
		return
	}
	ok(c, http.StatusOK, st.Snapshot())
}

// Sort godoc
// @Summary     Cycle a view's sort
// @Description Unsorted, ascending, descending, unsorted. Activating another column starts it ascending.
// @Tags        Views
// @Accept      json
// @Produce     json
// @Param       kind  path string                   true "Record collection"
// @Param       body  body handlers.ViewSortRequest true "Column"
// @Success     200 {object} handlers.ViewDoc
// @Failure     400 {object} handlers.ErrorResponse "Column not sortable"
// @Router      /views/{kind}/sort [post]
func (h *Entity[T, N, P]) Sort(c *gin.Context) {
	var req ViewSortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "column is required")
		return
	}
	st := h.svc.Store()
	if err := st.OnSort(c.Request.Context(), req.Column); err != nil {
		failErr(c, h.svc.Kind(), err)
		return
	}
	ok(c, http.StatusOK, st.Snapshot())
}

// SetPage godoc
// @Summary     Page a view
// @Tags        Views
// @Accept      json
// @Produce     json
// @Param       kind  path string                   true "Record collection"
// @Param       body  body handlers.ViewPageRequest true "Offset and limit"
// @Success     200 {object} handlers.ViewDoc
// @Failure     400 {object} handlers.ErrorResponse "Bad offset or limit"
// @Router      /views/{kind}/page [put]
func (h *Entity[T, N, P]) SetPage(c *gin.Context) {
	var req ViewPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "offset and limit must be non-negative")
		return
	}
	st := h.svc.Store()
	cur := st.Filter()
	if (req.Limit > 0 && req.Limit != cur.Limit) || req.Offset != cur.Offset {
		if err := st.SetWindow(c.Request.Context(), req.Offset, req.Limit); err != nil {
			failErr(c, h.svc.Kind(), err)
			return
		}
	}
	ok(c, http.StatusOK, st.Snapshot())
}

// ResetView godoc
// @Summary     Reset a view
// @Description Clears filter, sort and page. The superset cache is kept.
// @Tags        Views
// @Param       kind  path string true "Record collection"
// @Success     204 {string} string "No Content"
// @Router      /views/{kind} [delete]
func (h *Entity[T, N, P]) ResetView(c *gin.Context) {
	h.svc.Store().Reset()
	noContent(c)
}

// ViewDoc documents cache.View for swag.
type ViewDoc struct {
	Items  []any       `json:"items"`
	Total  int         `json:"total" example:"42"`
	Offset int         `json:"offset" example:"0"`
	Limit  int         `json:"limit" example:"25"`
	Sort   filter.Sort `json:"sort"`
}
