package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	r := redis.NewClient(&redis.Options{Addr: addr})
	return r.WithTimeout(2 * time.Second)
}

// OrderViews caches the serialized order detail response; the order
// service drops an entry whenever the order's placements change.
type OrderViews struct{ Client *redis.Client }

func (c *OrderViews) Get(ctx context.Context, orderID string) ([]byte, bool) {
	b, err := c.Client.Get(ctx, orderViewKey(orderID)).Bytes()
	if err != nil || len(b) == 0 {
		return nil, false
	}
	return b, true
}

func (c *OrderViews) Set(ctx context.Context, orderID string, body []byte) {
	_ = c.Client.Set(ctx, orderViewKey(orderID), body, TTLOrderView).Err()
}

func (c *OrderViews) Invalidate(ctx context.Context, orderID string) {
	_ = c.Client.Del(ctx, orderViewKey(orderID)).Err()
}

// ProductsPages caches serialized published-product listing pages keyed
// by the raw query string. TTL-expired only; writes don't invalidate it.
type ProductsPages struct{ Client *redis.Client }

func (c *ProductsPages) Get(ctx context.Context, rawQuery string) ([]byte, bool) {
	b, err := c.Client.Get(ctx, ProductsPageKey(rawQuery)).Bytes()
	if err != nil || len(b) == 0 {
		return nil, false
	}
	return b, true
}

func (c *ProductsPages) Set(ctx context.Context, rawQuery string, body []byte) {
	_ = c.Client.Set(ctx, ProductsPageKey(rawQuery), body, TTLProductsPage).Err()
}
