// Package catalog provides the read side of every listing surface. All
// reads go through the query cache keyed by the canonical search form, so
// two otherwise-identical calls share one backend request.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/stayhaven/edge/internal/gateway"
	"github.com/stayhaven/edge/internal/querycache"
	"github.com/stayhaven/edge/internal/search"
	"github.com/stayhaven/edge/internal/session"
)

type Hotel struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Province    string   `json:"province"`
	Commune     string   `json:"commune"`
	Address     string   `json:"address"`
	Stars       int      `json:"stars"`
	Images      []string `json:"images"`
}

type Room struct {
	ID       string   `json:"id"`
	HotelID  string   `json:"hotelId"`
	Name     string   `json:"name"`
	Capacity int      `json:"capacity"`
	Price    int64    `json:"price"`
	Images   []string `json:"images"`
}

type Booking struct {
	ID         string    `json:"id"`
	HotelID    string    `json:"hotelId"`
	RoomID     string    `json:"roomId"`
	Status     string    `json:"status"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	GuestCount int       `json:"guestCount"`
	TotalPrice int64     `json:"totalPrice"`
	OrderCode  string    `json:"orderCode,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Discount struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Percent   int       `json:"percent"`
	Active    bool      `json:"active"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Page pairs a listing payload with its backend-derived pagination.
type Page[T any] struct {
	Items      []T
	Pagination *gateway.Pagination
}

type Client struct {
	gw    *gateway.Gateway
	cache *querycache.Cache
}

func NewClient(gw *gateway.Gateway, cache *querycache.Cache) *Client {
	return &Client{gw: gw, cache: cache}
}

func (c *Client) Hotels(ctx context.Context, p search.Params) (*Page[Hotel], error) {
	return fetchPage[Hotel](ctx, c, "hotels", "/hotels", p, false)
}

func (c *Client) Rooms(ctx context.Context, p search.Params) (*Page[Room], error) {
	return fetchPage[Room](ctx, c, "rooms", "/rooms", p, false)
}

// Bookings is a private listing: the gateway marks the call as requiring an
// authenticated context.
func (c *Client) Bookings(ctx context.Context, p search.Params) (*Page[Booking], error) {
	return fetchPage[Booking](ctx, c, "bookings", "/bookings", p, true)
}

func (c *Client) Discounts(ctx context.Context, p search.Params) (*Page[Discount], error) {
	return fetchPage[Discount](ctx, c, "discounts", "/discounts", p, false)
}

// InvalidateBookings forces the next bookings listing to reload, e.g. after
// a draft is committed.
func (c *Client) InvalidateBookings() {
	c.cache.Invalidate("bookings")
}

func fetchPage[T any](ctx context.Context, c *Client, namespace, path string, p search.Params, private bool) (*Page[T], error) {
	// Private listings are keyed per session: a shared key would serve one
	// user's cached data to another.
	if private {
		namespace += "@" + session.FromContext(ctx).CacheScope()
	}
	key := search.CacheKey(namespace, p)
	v, err := c.cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		var items []T
		meta, err := c.gw.GetList(ctx, path, &items, &gateway.Options{
			PrivateRoute: private,
			Query:        p.Values(),
		})
		if err != nil {
			return nil, err
		}
		page := &Page[T]{Items: items}
		if meta != nil {
			page.Pagination = meta.Pagination
		}
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	page, ok := v.(*Page[T])
	if !ok {
		return nil, fmt.Errorf("unexpected cache payload for %s", key)
	}
	return page, nil
}
