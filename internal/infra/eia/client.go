package eia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.eia.gov/v2"

// 全米平均の週次ディーゼル小売価格の系列ID
const dieselSeriesID = "EMD_EPD2D_PTE_NUS_DPG"

// 米国EIA APIのクライアント。ディーゼル単価の取得に使う。
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type seriesRow struct {
	Period string      `json:"period"`
	Value  json.Number `json:"value"`
}

type seriesResponse struct {
	Response struct {
		Data []seriesRow `json:"data"`
	} `json:"response"`
}

// LatestDieselPriceは直近の週次ディーゼル価格（ドル/ガロン）を返す。
func (c *Client) LatestDieselPrice(ctx context.Context) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("frequency", "weekly")
	q.Set("data[0]", "value")
	q.Set("facets[series][]", dieselSeriesID)

	endpoint := c.baseURL + "/petroleum/pri/gnd/data/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("eia api error: %d", res.StatusCode)
	}

	var body seriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return decimal.Zero, err
	}
	if len(body.Response.Data) == 0 {
		return decimal.Zero, fmt.Errorf("eia api returned no data")
	}

	//periodはYYYY-MM-DD形式なので文字列比較で新しい順に並ぶ
	rows := body.Response.Data
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Period > rows[j].Period
	})

	price, err := decimal.NewFromString(rows[0].Value.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("eia api returned invalid value: %w", err)
	}
	return price, nil
}
