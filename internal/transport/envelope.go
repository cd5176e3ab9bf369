package transport

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Envelope is the paginated list response shape shared by every
// collection endpoint, status tables included.
type Envelope[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ItemPath joins a collection path and an id: "a/b/" + 7 -> "a/b/7/".
func ItemPath(collection string, id int) string {
	if !strings.HasSuffix(collection, "/") {
		collection += "/"
	}
	return collection + strconv.Itoa(id) + "/"
}

// List fetches one page of a collection.
func List[T any](ctx context.Context, api API, path string, q url.Values) (Envelope[T], error) {
	var env Envelope[T]
	_, err := api.Do(ctx, http.MethodGet, path, q, nil, &env)
	return env, err
}

// maxPages bounds ListAll against a backend whose next link never ends.
const maxPages = 100

// ListAll fetches every page of a collection, following next links by
// offset. Count is taken from the first page. Results accumulate in
// backend order.
func ListAll[T any](ctx context.Context, api API, path string, q url.Values) (Envelope[T], error) {
	env, err := List[T](ctx, api, path, q)
	if err != nil {
		return env, err
	}
	for pages := 1; env.Next != nil && len(env.Results) < env.Count && pages < maxPages; pages++ {
		nq := url.Values{}
		for k, v := range q {
			nq[k] = v
		}
		nq.Set("offset", strconv.Itoa(offsetOf(q)+len(env.Results)))
		next, err := List[T](ctx, api, path, nq)
		if err != nil {
			return env, err
		}
		if len(next.Results) == 0 {
			break
		}
		env.Results = append(env.Results, next.Results...)
		env.Next = next.Next
	}
	env.Previous = nil
	return env, nil
}

func offsetOf(q url.Values) int {
	n, err := strconv.Atoi(q.Get("offset"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Get fetches one item.
func Get[T any](ctx context.Context, api API, path string) (T, error) {
	var out T
	_, err := api.Do(ctx, http.MethodGet, path, nil, nil, &out)
	return out, err
}

// Post creates an item and decodes the resulting record.
func Post[T any](ctx context.Context, api API, path string, body any) (T, error) {
	var out T
	_, err := api.Do(ctx, http.MethodPost, path, nil, body, &out)
	return out, err
}

// Patch partially updates an item and decodes the resulting record.
func Patch[T any](ctx context.Context, api API, path string, body any) (T, error) {
	var out T
	_, err := api.Do(ctx, http.MethodPatch, path, nil, body, &out)
	return out, err
}

// Delete removes an item and returns the upstream status code.
func Delete(ctx context.Context, api API, path string) (int, error) {
	return api.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}
