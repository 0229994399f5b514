package eia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := &Client{
		baseURL:    srv.URL,
		apiKey:     "test-key",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
	return c, srv
}

func TestLatestDieselPrice_PicksNewestPeriod(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "weekly", r.URL.Query().Get("frequency"))

		w.Header().Set("Content-Type", "application/json")
		//並び順は保証されない想定で古い行を先に返す
		_, _ = w.Write([]byte(`{
			"response": {
				"data": [
					{"period": "2025-05-19", "value": 3.71},
					{"period": "2025-05-26", "value": 3.79}
				]
			}
		}`))
	})
	defer srv.Close()

	price, err := c.LatestDieselPrice(context.Background())
	assert.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(3.79)))
}

func TestLatestDieselPrice_EmptyData(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response": {"data": []}}`))
	})
	defer srv.Close()

	_, err := c.LatestDieselPrice(context.Background())
	assert.Error(t, err)
}

func TestLatestDieselPrice_HTTPError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	defer srv.Close()

	_, err := c.LatestDieselPrice(context.Background())
	assert.ErrorContains(t, err, "403")
}

func TestLatestDieselPrice_StringValue(t *testing.T) {
	//EIAは値を文字列で返すことがある
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response": {"data": [{"period": "2025-05-26", "value": "3.85"}]}}`))
	})
	defer srv.Close()

	price, err := c.LatestDieselPrice(context.Background())
	assert.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(3.85)))
}
