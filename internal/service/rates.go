package service

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RateClient describes the part of the exchange client used here.
type RateClient interface {
	Latest(ctx context.Context) (map[string]float64, error)
}

const ratesTTL = time.Hour

// RatesService serves currency rates from a single upstream endpoint
// behind a short-TTL cache. The upstream changes slowly, so one fetch an
// hour is plenty.
type RatesService struct {
	client RateClient
	cache  *ttlCache[map[string]float64]
}

func NewRatesService(client RateClient) *RatesService {
	return &RatesService{
		client: client,
		cache:  newTTLCache[map[string]float64](ratesTTL),
	}
}

// Rates returns the USD-based rate table, cached.
func (s *RatesService) Rates(ctx context.Context) (map[string]float64, error) {
	return s.cache.get(ctx, "USD", s.client.Latest)
}

// FormatRates renders RUB cross-rates for the main currencies.
func (s *RatesService) FormatRates(rates map[string]float64) string {
	usdRub := rates["RUB"]
	if usdRub == 0 {
		return "📈 RUB rate missing from the response."
	}
	var eurRub, cnyRub float64
	if eur := rates["EUR"]; eur != 0 {
		eurRub = usdRub / eur
	}
	if cny := rates["CNY"]; cny != 0 {
		cnyRub = usdRub / cny
	}
	lines := []string{
		"📈 <b>Currency rates</b>",
		"",
		fmt.Sprintf("💵 <b>USD:</b> <code>%.2f ₽</code>", usdRub),
		fmt.Sprintf("💶 <b>EUR:</b> <code>%.2f ₽</code>", eurRub),
		fmt.Sprintf("🇨🇳 <b>CNY:</b> <code>%.2f ₽</code>", cnyRub),
		"",
		"<i>Data by ExchangeRate-API</i>",
	}
	return strings.Join(lines, "\n")
}
