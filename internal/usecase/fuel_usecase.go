package usecase

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ディーゼル単価の取得元（EIAクライアントが実装する）。
type DieselPriceSource interface {
	LatestDieselPrice(ctx context.Context) (decimal.Decimal, error)
}

// 取得済み単価の有効期限付きキャッシュ。グローバル変数にはせず、
// 使うusecaseに注入する。
type PriceCache struct {
	mu        sync.Mutex
	value     decimal.Decimal
	fetchedAt time.Time
	ttl       time.Duration
}

func NewPriceCache(ttl time.Duration) *PriceCache {
	return &PriceCache{ttl: ttl}
}

// Getはキャッシュが有効ならそれを、切れていればfetchで取り直して返す。
func (c *PriceCache) Get(now time.Time, fetch func() (decimal.Decimal, error)) (decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetchedAt.IsZero() && now.Sub(c.fetchedAt) < c.ttl {
		return c.value, nil
	}

	value, err := fetch()
	if err != nil {
		return decimal.Zero, err
	}

	c.value = value
	c.fetchedAt = now
	return value, nil
}

// 大型トラックの平均燃費（マイル/ガロン）
var defaultMilesPerGallon = decimal.NewFromFloat(6.5)

// 単価が取れないときのフォールバック（ドル/ガロン）
var fallbackDieselPrice = decimal.NewFromFloat(3.85)

// 単価キャッシュの有効期限
const dieselPriceCacheTTL = 24 * time.Hour

// 距離からディーゼル燃料の使用量とコストを見積もる。
type FuelUsecase struct {
	prices DieselPriceSource
	cache  *PriceCache
	clock  Clock
}

// DI
func NewFuelUsecase(prices DieselPriceSource, cache *PriceCache, clock Clock) *FuelUsecase {
	if cache == nil {
		cache = NewPriceCache(dieselPriceCacheTTL)
	}
	return &FuelUsecase{prices: prices, cache: cache, clock: clock}
}

type FuelEstimateOutput struct {
	Gallons        decimal.Decimal `json:"gallons"`
	Cost           decimal.Decimal `json:"cost"`
	PricePerGallon decimal.Decimal `json:"price_per_gallon"`
}

// DieselPriceは現在のディーゼル単価を返す（キャッシュ利用、失敗時は
// フォールバック価格）。
func (u *FuelUsecase) DieselPrice(ctx context.Context) decimal.Decimal {
	price, err := u.cache.Get(u.clock.Now(), func() (decimal.Decimal, error) {
		return u.prices.LatestDieselPrice(ctx)
	})
	if err != nil {
		log.Printf("fuel: diesel price fetch failed, using fallback: %v", err)
		return fallbackDieselPrice
	}
	return price
}

// EstimateFuelCostは距離（マイル）と燃費から必要ガロン数とコストを計算する。
// mpgが0以下ならデフォルトの6.5を使う。
func (u *FuelUsecase) EstimateFuelCost(ctx context.Context, distanceMiles, milesPerGallon decimal.Decimal) (FuelEstimateOutput, error) {
	if distanceMiles.LessThanOrEqual(decimal.Zero) {
		return FuelEstimateOutput{}, NewHTTPError(http.StatusBadRequest, "invalid distance")
	}

	mpg := milesPerGallon
	if mpg.LessThanOrEqual(decimal.Zero) {
		mpg = defaultMilesPerGallon
	}

	price := u.DieselPrice(ctx)

	gallons := distanceMiles.Div(mpg).Round(2)
	cost := gallons.Mul(price).Round(2)

	return FuelEstimateOutput{
		Gallons:        gallons,
		Cost:           cost,
		PricePerGallon: price.Round(3),
	}, nil
}
