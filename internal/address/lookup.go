// Package address proxies the external province/commune lookup service and
// falls back to a small embedded dataset when the upstream is unreachable.
// The fallback is a deliberate availability trade-off; results carry a
// Source field so callers can tell live data from fallback data.
package address

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stayhaven/edge/pkg/config"
	"github.com/stayhaven/edge/pkg/logger"
)

const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)

type Province struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Commune struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	ProvinceCode string `json:"provinceCode"`
}

// Result wraps a lookup payload with its provenance.
type Result[T any] struct {
	Items  []T    `json:"items"`
	Source string `json:"source"`
}

type Lookup struct {
	baseURL string
	client  *http.Client
}

func NewLookup(cfg config.AddressConfig) *Lookup {
	return &Lookup{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (l *Lookup) Provinces(ctx context.Context) *Result[Province] {
	var items []Province
	if err := l.fetch(ctx, "/p", &items); err != nil {
		logger.WarnContext(ctx, "province lookup fell back to embedded dataset", "error", err)
		return &Result[Province]{Items: fallbackProvinces, Source: SourceFallback}
	}
	return &Result[Province]{Items: items, Source: SourceLive}
}

func (l *Lookup) Communes(ctx context.Context, provinceCode string) *Result[Commune] {
	var items []Commune
	if err := l.fetch(ctx, "/p/"+provinceCode+"/w", &items); err != nil {
		logger.WarnContext(ctx, "commune lookup fell back to embedded dataset",
			"province", provinceCode, "error", err)
		return &Result[Commune]{Items: fallbackCommunes(provinceCode), Source: SourceFallback}
	}
	return &Result[Commune]{Items: items, Source: SourceLive}
}

func (l *Lookup) fetch(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream answered %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
