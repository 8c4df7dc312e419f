package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"lecture-sync/internal/httpx"
)

// KakaoClient talks to the Kakao local-search API: one endpoint for exact
// address lookup, one for free-text POI (keyword) lookup.
type KakaoClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Retry   httpx.RetryConfig
}

func NewKakao(baseURL, apiKey string) *KakaoClient {
	return &KakaoClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP: &http.Client{
			Timeout: 15 * time.Second,
		},
		Retry: httpx.DefaultRetryConfig(),
	}
}

// Place is one geocoding candidate. Sido/Sigungu are only populated by the
// address endpoint; the keyword endpoint does not return structured regions.
type Place struct {
	Coords  Coords
	Sido    string
	Sigungu string
}

type kakaoResponse struct {
	Documents []struct {
		X       string `json:"x"` // longitude
		Y       string `json:"y"` // latitude
		Address *struct {
			Region1 string `json:"region_1depth_name"`
			Region2 string `json:"region_2depth_name"`
		} `json:"address"`
	} `json:"documents"`
}

// SearchAddress resolves an exact address string. Returns (nil, nil) when the
// service has no candidate.
func (c *KakaoClient) SearchAddress(ctx context.Context, query string) (*Place, error) {
	return c.search(ctx, "/v2/local/search/address.json", query)
}

// SearchKeyword resolves a free-text place query (institution names).
// Returns (nil, nil) when the service has no candidate.
func (c *KakaoClient) SearchKeyword(ctx context.Context, query string) (*Place, error) {
	return c.search(ctx, "/v2/local/search/keyword.json", query)
}

func (c *KakaoClient) search(ctx context.Context, path, query string) (*Place, error) {
	var out kakaoResponse
	err := httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		q := url.Values{}
		q.Set("query", query)
		q.Set("size", "1")
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("kakao: build request: %w", err)
		}
		req.Header.Set("Authorization", "KakaoAK "+c.APIKey)
		return req, nil
	}, &out, c.Retry)
	if err != nil {
		return nil, fmt.Errorf("kakao: %s query=%q: %w", path, query, err)
	}

	if len(out.Documents) == 0 {
		return nil, nil
	}

	doc := out.Documents[0]
	lat, err := strconv.ParseFloat(doc.Y, 64)
	if err != nil {
		return nil, fmt.Errorf("kakao: bad latitude %q: %w", doc.Y, err)
	}
	lng, err := strconv.ParseFloat(doc.X, 64)
	if err != nil {
		return nil, fmt.Errorf("kakao: bad longitude %q: %w", doc.X, err)
	}

	p := &Place{Coords: Coords{Lat: lat, Lng: lng}}
	if doc.Address != nil {
		p.Sido = doc.Address.Region1
		p.Sigungu = doc.Address.Region2
	}
	return p, nil
}
