// Package kmooc fetches the K-MOOC online course catalog (apis.data.go.kr,
// B552881 courseList v2).
package kmooc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"lecture-sync/internal/domain"
	"lecture-sync/internal/httpx"
	"lecture-sync/internal/identity"
	"lecture-sync/internal/sources"
)

const (
	// The service ignores numOfRows and always returns 15 rows per page, so
	// the drain loop must terminate on totalCount rather than short pages.
	requestedRows = 100

	defaultLink = "http://www.kmooc.kr/"

	onlineTarget      = "온라인 수강가능 대상자"
	defaultInstructor = "K-MOOC 강사"
	titlePrefix       = "[K-MOOC] "
)

type Client struct {
	BaseURL    string
	ServiceKey string
	HTTP       *http.Client
	Retry      httpx.RetryConfig
}

func New(baseURL, serviceKey string) *Client {
	return &Client{
		BaseURL:    baseURL,
		ServiceKey: serviceKey,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
		Retry: httpx.DefaultRetryConfig(),
	}
}

func (c *Client) Name() string { return "kmooc" }

type kmoocItem struct {
	ID         json.Number `json:"id"`
	Name       string      `json:"name"`
	Professor  string      `json:"professor"`
	StudyStart json.Number `json:"study_start"`
	StudyEnd   json.Number `json:"study_end"`
	URL        string      `json:"url"`
}

type kmoocResponse struct {
	Header struct {
		ResultCode string `json:"resultCode"`
		ResultMsg  string `json:"resultMsg"`
		TotalCount int    `json:"totalCount"`
	} `json:"header"`
	Items      []kmoocItem `json:"items"`
	TotalCount int         `json:"totalCount"`
}

// FetchPage retrieves one page of the catalog. page is 1-based.
func (c *Client) FetchPage(ctx context.Context, page int) (sources.Page, error) {
	q := url.Values{}
	q.Set("serviceKey", c.ServiceKey)
	q.Set("MobileOS", "ETC")
	q.Set("MobileApp", "LocalLeaning")
	q.Set("page", strconv.Itoa(page))
	q.Set("numOfRows", strconv.Itoa(requestedRows))

	var out kmoocResponse
	err := httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	}, &out, c.Retry)
	if err != nil {
		return sources.Page{}, fmt.Errorf("kmooc: page %d: %w", page, err)
	}

	total := out.Header.TotalCount
	if total == 0 {
		total = out.TotalCount
	}

	items := make([]domain.Lecture, 0, len(out.Items))
	for _, it := range out.Items {
		items = append(items, mapItem(it))
	}
	// Requested is 0: the page size is out of our hands, only the reported
	// total (or an empty page) ends the drain.
	return sources.Page{Items: items, Total: total, Requested: 0}, nil
}

func mapItem(it kmoocItem) domain.Lecture {
	name := it.Name
	if name == "" {
		name = domain.TitleUnknown
	}
	instructor := it.Professor
	if instructor == "" {
		instructor = defaultInstructor
	}

	period := domain.PeriodAlways
	start, err1 := it.StudyStart.Int64()
	end, err2 := it.StudyEnd.Int64()
	if err1 == nil && err2 == nil && start > 0 && end > 0 {
		period = time.Unix(start, 0).UTC().Format("2006-01-02") +
			" ~ " +
			time.Unix(end, 0).UTC().Format("2006-01-02")
	}

	link := it.URL
	if link == "" {
		link = defaultLink
	}

	return domain.Lecture{
		ID:         identity.KmoocID(it.ID.String()),
		Title:      titlePrefix + name,
		Instructor: instructor,
		Period:     period,
		ApplyEnd:   domain.ParseApplyEnd(period),
		Target:     onlineTarget,
		Link:       link,
		Address:    domain.AddressOnline,
		IsFree:     true,
		Price:      domain.PriceFree,
	}
}
