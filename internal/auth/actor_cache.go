package auth

import (
	"context"
	"time"

	"github.com/letzcode/letzcode-server/internal/domain/user"
	"github.com/patrickmn/go-cache"
)

// ActorTTL is how long a resolved account stays cached.
const ActorTTL = time.Minute

// AccountLoader loads an account by ID.
type AccountLoader interface {
	Get(ctx context.Context, id string) (*user.User, error)
}

// ActorCache resolves token subjects to accounts, caching hits briefly so
// every authenticated request does not reach the store.
type ActorCache struct {
	loader AccountLoader
	cache  *cache.Cache
}

// NewActorCache creates a cache in front of loader.
func NewActorCache(loader AccountLoader) *ActorCache {
	return &ActorCache{
		loader: loader,
		cache:  cache.New(ActorTTL, 2*ActorTTL),
	}
}

// Resolve returns the account for id. Loader errors pass through uncached.
// Every call gets its own copy of the cached account.
func (c *ActorCache) Resolve(ctx context.Context, id string) (*user.User, error) {
	if cached, ok := c.cache.Get(id); ok {
		if u, ok := cached.(*user.User); ok {
			return cloneUser(u), nil
		}
	}

	u, err := c.loader.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Set(id, u, cache.DefaultExpiration)
	return cloneUser(u), nil
}

func cloneUser(u *user.User) *user.User {
	out := *u
	if u.Birthday != nil {
		birthday := *u.Birthday
		out.Birthday = &birthday
	}
	return &out
}

// Invalidate drops id so the next Resolve reloads it.
func (c *ActorCache) Invalidate(id string) {
	c.cache.Delete(id)
}
