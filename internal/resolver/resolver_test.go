package resolver

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tbourn/catalogue-admin/internal/cache"
	"github.com/tbourn/catalogue-admin/internal/domain"
)

// fakeBackend serves users by id and records each batch it was asked for.
type fakeBackend struct {
	users   map[int]domain.User
	batches [][]int
	err     error
}

func (b *fakeBackend) fetch(_ context.Context, ids []int) ([]domain.User, error) {
	b.batches = append(b.batches, append([]int(nil), ids...))
	if b.err != nil {
		return nil, b.err
	}
	var out []domain.User
	for _, id := range ids {
		if u, ok := b.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func newFixture() (*Resolver[domain.User], *fakeBackend) {
	b := &fakeBackend{users: map[int]domain.User{
		1: {ID: 1, Username: "one"},
		2: {ID: 2, Username: "two"},
		3: {ID: 3, Username: "three"},
	}}
	return New("user", cache.New[domain.User](), b.fetch), b
}

func TestGetOrFetch_SecondCallIsCacheHit(t *testing.T) {
	r, b := newFixture()
	ctx := context.Background()

	u, err := r.GetOrFetch(ctx, 2)
	if err != nil || u.Username != "two" {
		t.Fatalf("GetOrFetch = %+v, %v", u, err)
	}
	if _, err := r.GetOrFetch(ctx, 2); err != nil {
		t.Fatalf("second GetOrFetch: %v", err)
	}
	if len(b.batches) != 1 {
		t.Fatalf("requests = %d; want 1", len(b.batches))
	}
}

func TestGetOrFetch_NotFound(t *testing.T) {
	r, _ := newFixture()
	_, err := r.GetOrFetch(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var me *MissingError
	if !errors.As(err, &me) || !reflect.DeepEqual(me.IDs, []int{99}) || me.Kind != "user" {
		t.Fatalf("unexpected error detail: %v", err)
	}
}

func TestGetOrFetchList_OneBatchForAllMisses(t *testing.T) {
	r, b := newFixture()
	out, err := r.GetOrFetchList(context.Background(), []int{1, 2, 3})
	if err != nil {
		t.Fatalf("GetOrFetchList: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d", len(out))
	}
	if len(b.batches) != 1 || !reflect.DeepEqual(b.batches[0], []int{1, 2, 3}) {
		t.Fatalf("batches = %v", b.batches)
	}
}

func TestGetOrFetchList_OnlyMissesAreFetched(t *testing.T) {
	r, b := newFixture()
	ctx := context.Background()
	r.Cache().Put(domain.User{ID: 2, Username: "cached"})

	out, err := r.GetOrFetchList(ctx, []int{3, 2, 1})
	if err != nil {
		t.Fatalf("GetOrFetchList: %v", err)
	}
	if !reflect.DeepEqual(b.batches, [][]int{{3, 1}}) {
		t.Fatalf("batches = %v", b.batches)
	}
	got := []string{out[0].Username, out[1].Username, out[2].Username}
	if !reflect.DeepEqual(got, []string{"three", "cached", "one"}) {
		t.Fatalf("order/content = %v", got)
	}

	if _, err := r.GetOrFetchList(ctx, []int{1, 2, 3}); err != nil {
		t.Fatalf("all-cached call: %v", err)
	}
	if len(b.batches) != 1 {
		t.Fatalf("fully cached call should not fetch")
	}
}

func TestGetOrFetchList_DuplicatesCollapse(t *testing.T) {
	inputs := [][]int{
		{1, 1, 1},
		{2, 1, 2, 1},
		{3, 3, 2, 2, 1, 1},
	}
	for _, ids := range inputs {
		r, b := newFixture()
		r.Cache().Put(domain.User{ID: 2, Username: "two"})
		out, err := r.GetOrFetchList(context.Background(), ids)
		if err != nil {
			t.Fatalf("%v: %v", ids, err)
		}
		seen := map[int]bool{}
		for _, u := range out {
			if seen[u.ID] {
				t.Fatalf("%v: duplicate id %d in %+v", ids, u.ID, out)
			}
			seen[u.ID] = true
		}
		distinct := map[int]bool{}
		for _, id := range ids {
			distinct[id] = true
		}
		if len(out) != len(distinct) {
			t.Fatalf("%v: got %d entries; want %d", ids, len(out), len(distinct))
		}
		for _, batch := range b.batches {
			dup := map[int]bool{}
			for _, id := range batch {
				if dup[id] {
					t.Fatalf("%v: duplicate id in batch %v", ids, batch)
				}
				dup[id] = true
			}
		}
	}
}

func TestGetOrFetchList_EmptyAndErrors(t *testing.T) {
	r, b := newFixture()
	out, err := r.GetOrFetchList(context.Background(), nil)
	if err != nil || len(out) != 0 || len(b.batches) != 0 {
		t.Fatalf("empty input: %v %v %v", out, err, b.batches)
	}

	boom := errors.New("upstream down")
	b.err = boom
	if _, err := r.GetOrFetchList(context.Background(), []int{1}); !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if r.Cache().Len() != 0 {
		t.Fatalf("failed fetch must not populate cache")
	}
}

func TestGetOrFetchList_PartialMissFailsButCachesFound(t *testing.T) {
	r, _ := newFixture()
	_, err := r.GetOrFetchList(context.Background(), []int{1, 42})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, ok := r.Cache().Get(1); !ok {
		t.Fatalf("found records should still be merged")
	}
}
