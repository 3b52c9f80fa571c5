package address_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stayhaven/edge/internal/address"
	"github.com/stayhaven/edge/pkg/config"
)

func lookupFor(baseURL string) *address.Lookup {
	return address.NewLookup(config.AddressConfig{BaseURL: baseURL, Timeout: time.Second})
}

func TestProvincesFromUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/p", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]string{{"code": "01", "name": "Hà Nội"}})
	}))
	defer srv.Close()

	res := lookupFor(srv.URL).Provinces(context.Background())
	require.Equal(t, address.SourceLive, res.Source)
	require.Len(t, res.Items, 1)
	require.Equal(t, "Hà Nội", res.Items[0].Name)
}

func TestProvincesFallBackWhenUpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	res := lookupFor(srv.URL).Provinces(context.Background())
	require.Equal(t, address.SourceFallback, res.Source)
	require.NotEmpty(t, res.Items)
}

func TestProvincesFallBackWhenUnreachable(t *testing.T) {
	res := lookupFor("http://127.0.0.1:1").Provinces(context.Background())
	require.Equal(t, address.SourceFallback, res.Source)
	require.NotEmpty(t, res.Items)
}

func TestCommunesScopedToProvince(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/p/48/w", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]string{{"code": "20194", "name": "Hải Châu 1", "provinceCode": "48"}})
	}))
	defer srv.Close()

	res := lookupFor(srv.URL).Communes(context.Background(), "48")
	require.Equal(t, address.SourceLive, res.Source)
	require.Len(t, res.Items, 1)
}

func TestCommunesFallbackMayBeEmptyForUnknownProvince(t *testing.T) {
	res := lookupFor("http://127.0.0.1:1").Communes(context.Background(), "99")
	require.Equal(t, address.SourceFallback, res.Source)
	require.Empty(t, res.Items)
}
