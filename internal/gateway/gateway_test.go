package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stayhaven/edge/internal/apierr"
	"github.com/stayhaven/edge/internal/gateway"
)

type staticTokens struct{ token string }

func (s staticTokens) AccessToken(context.Context) string { return s.token }

// ctxTokens resolves the token from a request-scoped context value, the way
// the session package feeds the interceptor.
type tokenKey struct{}

type ctxTokens struct{}

func (ctxTokens) AccessToken(ctx context.Context) string {
	v, _ := ctx.Value(tokenKey{}).(string)
	return v
}

func TestGetUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "h-1", "name": "Riverside"}})
	}))
	defer srv.Close()

	gw := gateway.New(srv.URL, nil)

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, gw.Get(context.Background(), "/hotels/h-1", &out, nil))
	require.Equal(t, "h-1", out.ID)
	require.Equal(t, "Riverside", out.Name)
}

func TestGetListReturnsMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"id": "h-1"}},
			"metadata": map[string]any{
				"pagination": map[string]any{
					"total": 37, "currentPage": 1, "pageSize": 10,
					"totalPage": 4, "hasNextPage": true, "hasPreviousPage": false,
				},
			},
		})
	}))
	defer srv.Close()

	gw := gateway.New(srv.URL, nil)

	var items []struct {
		ID string `json:"id"`
	}
	meta, err := gw.GetList(context.Background(), "/hotels", &items, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, meta)
	require.NotNil(t, meta.Pagination)
	require.Equal(t, 37, meta.Pagination.Total)
	require.True(t, meta.Pagination.HasNextPage)
}

func TestCredentialInterceptorAndPrivateHeader(t *testing.T) {
	var gotAuth, gotPrivate string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPrivate = r.Header.Get(gateway.PrivateRouteHeader)
		json.NewEncoder(w).Encode(map[string]any{"data": true})
	}))
	defer srv.Close()

	gw := gateway.New(srv.URL, staticTokens{token: "at1"})

	var out bool
	require.NoError(t, gw.Get(context.Background(), "/bookings", &out, &gateway.Options{PrivateRoute: true}))
	require.Equal(t, "Bearer at1", gotAuth)
	require.Equal(t, "1", gotPrivate)

	// The interceptor runs for public calls too; only the sentinel header
	// is tied to the privacy flag.
	require.NoError(t, gw.Get(context.Background(), "/hotels", &out, nil))
	require.Equal(t, "Bearer at1", gotAuth)
	require.Empty(t, gotPrivate)
}

func TestTokenResolvedPerCallContext(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"data": true})
	}))
	defer srv.Close()

	gw := gateway.New(srv.URL, ctxTokens{})

	var out bool
	alice := context.WithValue(context.Background(), tokenKey{}, "alice-token")
	require.NoError(t, gw.Get(alice, "/bookings", &out, nil))
	require.Equal(t, "Bearer alice-token", gotAuth)

	bob := context.WithValue(context.Background(), tokenKey{}, "bob-token")
	require.NoError(t, gw.Get(bob, "/bookings", &out, nil))
	require.Equal(t, "Bearer bob-token", gotAuth)

	// An anonymous context attaches nothing.
	require.NoError(t, gw.Get(context.Background(), "/hotels", &out, nil))
	require.Empty(t, gotAuth)
}

func TestNonOKBecomesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "room no longer available"})
	}))
	defer srv.Close()

	gw := gateway.New(srv.URL, nil)

	err := gw.Post(context.Background(), "/bookings", map[string]string{}, nil, nil)
	var te *apierr.TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, http.StatusConflict, te.Status)
	require.Equal(t, "room no longer available", te.Message)
}

func TestTimeoutBecomesTimeoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	gw := gateway.New(srv.URL, nil, gateway.WithTimeout(20*time.Millisecond))

	err := gw.Get(context.Background(), "/hotels", nil, nil)
	require.True(t, apierr.IsTimeout(err), "got %v", err)
}

func TestUnauthorizedHookFires(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var fired bool
	gw := gateway.New(srv.URL, nil, gateway.WithUnauthorizedHook(func(context.Context) { fired = true }))

	err := gw.Get(context.Background(), "/bookings", nil, &gateway.Options{PrivateRoute: true})
	require.Error(t, err)
	require.True(t, fired)
}

func TestQueryParametersAreAppended(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer srv.Close()

	gw := gateway.New(srv.URL, nil)

	q := url.Values{"page": {"2"}, "pageSize": {"10"}}
	_, err := gw.GetList(context.Background(), "/hotels", nil, &gateway.Options{Query: q})
	require.NoError(t, err)
	require.Equal(t, "2", gotQuery.Get("page"))
	require.Equal(t, "10", gotQuery.Get("pageSize"))
}
