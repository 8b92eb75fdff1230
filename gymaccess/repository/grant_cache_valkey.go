package repository

import (
	"context"
	"strconv"
	"time"
)

// setStore es la parte de infrastructure/valkey.Client que usa la caché
type setStore interface {
	Key(parts ...string) string
	AddToSet(ctx context.Context, key string, ttl time.Duration, members ...string) error
	SetMembers(ctx context.Context, key string) ([]string, error)
}

// ValkeyGrantCache guarda, por cédula y día, las horas de turno ya otorgadas.
// Es solo un atajo del guard diario; la base sigue siendo la fuente de verdad.
type ValkeyGrantCache struct {
	store setStore
	ttl   time.Duration
}

func NewValkeyGrantCache(store setStore, ttl time.Duration) *ValkeyGrantCache {
	if ttl <= 0 {
		ttl = 36 * time.Hour
	}
	return &ValkeyGrantCache{store: store, ttl: ttl}
}

func (c *ValkeyGrantCache) key(cedula, day string) string {
	return c.store.Key("grant", day, cedula)
}

func (c *ValkeyGrantCache) MatchGrant(ctx context.Context, cedula, day string, hours ...int) (int, bool, error) {
	members, err := c.store.SetMembers(ctx, c.key(cedula, day))
	if err != nil {
		return 0, false, err
	}
	granted := make(map[string]struct{}, len(members))
	for _, m := range members {
		granted[m] = struct{}{}
	}
	for _, h := range hours {
		if _, ok := granted[strconv.Itoa(h)]; ok {
			return h, true, nil
		}
	}
	return 0, false, nil
}

func (c *ValkeyGrantCache) RememberGrant(ctx context.Context, cedula, day string, hour int) error {
	return c.store.AddToSet(ctx, c.key(cedula, day), c.ttl, strconv.Itoa(hour))
}
