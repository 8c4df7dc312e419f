// Package standard fetches the nationwide lifelong-learning lecture dataset
// from the public data portal (data.go.kr).
package standard

import (
	"bytes"
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

const defaultPageSize = 1000

type Client struct {
	BaseURL    string
	ServiceKey string
	PageSize   int
	HTTP       *http.Client
	Retry      httpx.RetryConfig
}

// New builds a portal client. serviceKey is the decoded key; it is
// URL-encoded when the request is built.
func New(baseURL, serviceKey string) *Client {
	return &Client{
		BaseURL:    baseURL,
		ServiceKey: serviceKey,
		PageSize:   defaultPageSize,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
		Retry: httpx.DefaultRetryConfig(),
	}
}

func (c *Client) Name() string { return "standard" }

type standardItem struct {
	InstitutionName string `json:"insttNm"`
	LectureName     string `json:"lctreNm"`
	Instructor      string `json:"instrctrNm"`
	StartDay        string `json:"edcStartDay"`
	EndDay          string `json:"edcEndDay"`
	Target          string `json:"edcTrgetType"`
	Homepage        string `json:"homepageUrl"`
	RoadAddress     string `json:"edcRdnmadr"`
	Place           string `json:"edcPlace"`
	Cost            string `json:"lctreCost"`
}

// itemList tolerates the portal's empty-result quirk: body.items comes back
// as an empty string instead of an empty array when no rows match.
type itemList []standardItem

func (l *itemList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		*l = nil
		return nil
	}
	var items []standardItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

type standardResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items itemList `json:"items"`
			// The portal emits this as a string today; json.Number keeps a
			// future numeric encoding from failing the whole page.
			TotalCount json.Number `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

// FetchPage retrieves one page of the dataset. page is 1-based.
func (c *Client) FetchPage(ctx context.Context, page int) (sources.Page, error) {
	q := url.Values{}
	q.Set("serviceKey", c.ServiceKey)
	q.Set("pageNo", strconv.Itoa(page))
	q.Set("numOfRows", strconv.Itoa(c.PageSize))
	q.Set("type", "json")

	var out standardResponse
	err := httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	}, &out, c.Retry)
	if err != nil {
		return sources.Page{}, fmt.Errorf("standard: page %d: %w", page, err)
	}

	hdr := out.Response.Header
	body := out.Response.Body
	if len(body.Items) == 0 && hdr.ResultCode != "" && hdr.ResultCode != "00" {
		return sources.Page{}, fmt.Errorf("standard: page %d: portal error %s (%s)", page, hdr.ResultCode, hdr.ResultMsg)
	}

	total64, _ := body.TotalCount.Int64()
	total := int(total64)
	items := make([]domain.Lecture, 0, len(body.Items))
	for _, it := range body.Items {
		items = append(items, mapItem(it))
	}
	return sources.Page{Items: items, Total: total, Requested: c.PageSize}, nil
}

func mapItem(it standardItem) domain.Lecture {
	title := it.LectureName
	if title == "" {
		title = domain.TitleUnknown
	}
	instructor := it.Instructor
	if instructor == "" {
		instructor = domain.InstructorUnknown
	}
	target := it.Target
	if target == "" {
		target = domain.TargetAnyone
	}

	period := domain.PeriodAlways
	if it.StartDay != "" || it.EndDay != "" {
		period = it.StartDay + " ~ " + it.EndDay
	}

	address := it.RoadAddress
	if address == "" {
		address = it.Place
	}
	if address == "" {
		address = domain.AddressUnknown
	}

	// An absent cost is treated like "0": these are public programs and a
	// missing fee means there is none, not an unknown paid price.
	isFree := it.Cost == "" || it.Cost == "0"
	price := domain.PriceFree
	if !isFree {
		price = it.Cost + "원"
	}

	return domain.Lecture{
		ID:         identity.StandardID(it.InstitutionName, it.LectureName, it.StartDay, it.EndDay),
		Title:      title,
		Instructor: instructor,
		Period:     period,
		ApplyEnd:   domain.ParseApplyEnd(period),
		Target:     target,
		Link:       it.Homepage,
		Address:    address,
		IsFree:     isFree,
		Price:      price,
	}
}
