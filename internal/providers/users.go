package providers

import (
	"context"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/catalogue-admin/internal/cache"
	"github.com/tbourn/catalogue-admin/internal/domain"
	"github.com/tbourn/catalogue-admin/internal/filter"
	"github.com/tbourn/catalogue-admin/internal/resolver"
	"github.com/tbourn/catalogue-admin/internal/transport"
)

var userSchema = filter.NewSchema(KindUser, []string{"username"},
	filter.Field{Name: "username", Kind: filter.KindText},
	filter.Field{Name: filter.SearchField, Kind: filter.KindText},
)

// UserFilter selects users by id, by username, or both.
type UserFilter struct {
	IDs       []int
	Usernames []string
}

func (f UserFilter) empty() bool { return len(f.IDs) == 0 && len(f.Usernames) == 0 }

// UserResolver fetches accounts and keeps them in an id-keyed cache that is
// shared by every provider embedding users.
type UserResolver struct {
	api  transport.API
	refs *resolver.Resolver[domain.User]
}

// NewUserResolver returns a resolver backed by c.
func NewUserResolver(api transport.API, c *cache.Cache[domain.User]) *UserResolver {
	u := &UserResolver{api: api}
	u.refs = resolver.New(KindUser, c, func(ctx context.Context, ids []int) ([]domain.User, error) {
		return u.fetch(ctx, UserFilter{IDs: ids})
	})
	return u
}

// Cache returns the user cache.
func (u *UserResolver) Cache() *cache.Cache[domain.User] { return u.refs.Cache() }

// FetchUser fetches one account by id.
func (u *UserResolver) FetchUser(ctx context.Context, id int) (domain.User, error) {
	if id <= 0 {
		return domain.User{}, missingID("fetch", KindUser)
	}
	ctx, span := otel.Tracer("providers/UserResolver").Start(ctx, "FetchUser",
		trace.WithAttributes(attribute.Int("user.id", id)),
	)
	defer span.End()

	usr, err := transport.Get[domain.User](ctx, u.api, transport.ItemPath(pathUsers, id))
	if err != nil {
		span.RecordError(err)
		return domain.User{}, notFoundOr(err, KindUser, id)
	}
	u.Cache().Put(usr)
	return usr, nil
}

// FetchUsers returns every user matching any id or any username in f, with
// one request per list. An empty filter returns nothing without a request.
func (u *UserResolver) FetchUsers(ctx context.Context, f UserFilter) ([]domain.User, error) {
	if f.empty() {
		return nil, nil
	}
	ctx, span := otel.Tracer("providers/UserResolver").Start(ctx, "FetchUsers",
		trace.WithAttributes(
			attribute.Int("ids", len(f.IDs)),
			attribute.Int("usernames", len(f.Usernames)),
		),
	)
	defer span.End()

	out, err := u.fetch(ctx, f)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	u.Cache().Put(out...)
	return out, nil
}

// fetch sends one request per non-empty list and returns the union. The
// backend ANDs filters within a request, so ids and usernames never share one.
func (u *UserResolver) fetch(ctx context.Context, uf UserFilter) ([]domain.User, error) {
	var byID, byName []domain.User
	err := parallel(ctx,
		func(ctx context.Context) (err error) {
			if len(uf.IDs) == 0 {
				return nil
			}
			f := filter.New(userSchema, len(uf.IDs))
			if err := f.Set("id", filter.IDs(uf.IDs...)); err != nil {
				return err
			}
			byID, err = u.list(ctx, f.Query())
			return err
		},
		func(ctx context.Context) (err error) {
			if len(uf.Usernames) == 0 {
				return nil
			}
			q := filter.New(userSchema, len(uf.Usernames)).Query()
			q.Set("username__in", strings.Join(uf.Usernames, ","))
			byName, err = u.list(ctx, q)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return DedupeUsers(append(byID, byName...)), nil
}

func (u *UserResolver) list(ctx context.Context, q url.Values) ([]domain.User, error) {
	env, err := transport.ListAll[domain.User](ctx, u.api, pathUsers, q)
	if err != nil {
		return nil, err
	}
	return env.Results, nil
}

// GetOrFetch resolves one user through the cache.
func (u *UserResolver) GetOrFetch(ctx context.Context, id int) (domain.User, error) {
	return u.refs.GetOrFetch(ctx, id)
}

// GetOrFetchList resolves ids through the cache with at most one request.
func (u *UserResolver) GetOrFetchList(ctx context.Context, ids []int) ([]domain.User, error) {
	return u.refs.GetOrFetchList(ctx, ids)
}

// GetUserFromID looks id up in known without any request.
func GetUserFromID(id int, known []domain.User) (domain.User, bool) {
	for _, usr := range known {
		if usr.ID == id {
			return usr, true
		}
	}
	return domain.User{}, false
}

// GetUserFromUsername looks a username up in known, ignoring case.
func GetUserFromUsername(username string, known []domain.User) (domain.User, bool) {
	for _, usr := range known {
		if sameUsername(usr.Username, username) {
			return usr, true
		}
	}
	return domain.User{}, false
}

// DedupeUsers collapses users assembled from overlapping fetches.
func DedupeUsers(users []domain.User) []domain.User {
	return resolver.Dedupe(users)
}

// userPtr returns the user for an optional foreign key.
func userPtr(byID map[int]domain.User, id *int) *domain.User {
	if id == nil {
		return nil
	}
	usr, ok := byID[*id]
	if !ok {
		return nil
	}
	return &usr
}

func usersOf(byID map[int]domain.User, ids []int) []domain.User {
	out := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if usr, ok := byID[id]; ok {
			out = append(out, usr)
		}
	}
	return out
}
