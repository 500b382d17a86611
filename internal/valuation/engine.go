// Package valuation turns raw market snapshots into per-item price
// estimates, relic expected values, and the two profitability rankings.
package valuation

import (
	"encoding/json"
	"log/slog"
	"math"
	"sort"

	"github.com/alanyoungcy/relicbot/internal/domain"
)

// Mode selects the price estimation strategy.
type Mode string

const (
	// ModeLive estimates from the current sell side of the order book.
	ModeLive Mode = "live"
	// ModeStatistics estimates from closed-trade statistics.
	ModeStatistics Mode = "statistics"
)

// WindowPolicy selects which end of the sorted statistics window the
// estimate averages over.
type WindowPolicy string

const (
	// PolicyOldest averages the oldest records in the window.
	PolicyOldest WindowPolicy = "oldest"
	// PolicyRecent averages the most recent records in the window.
	PolicyRecent WindowPolicy = "recent"
)

// Engine computes price estimates and relic rankings. It is stateless
// between calls; every cycle recomputes from the snapshots it is given.
type Engine struct {
	mode       Mode
	window     string
	windowDays int
	policy     WindowPolicy
	logger     *slog.Logger
}

// New creates an Engine. window names the closed-statistics horizon
// (e.g. "90days"), windowDays is how many records of it are averaged.
func New(mode Mode, window string, windowDays int, policy WindowPolicy, logger *slog.Logger) *Engine {
	return &Engine{
		mode:       mode,
		window:     window,
		windowDays: windowDays,
		policy:     policy,
		logger:     logger,
	}
}

// Estimates derives one price per entity from the raw snapshots. Both
// snapshots are always passed in; the mode decides which one is read.
//
// Live mode: the platinum values of all sell orders are sorted ascending and
// the element at len/2 is taken, so even counts resolve to the upper median.
// No sell orders means no price.
//
// Statistics mode: the closed records for the configured window are sorted
// by datetime and windowDays of them are averaged (mean of the median
// column, rounded to 2 decimals), taking the oldest or the most recent
// records per the policy. An empty window means no price.
func (e *Engine) Estimates(orders, statistics domain.RawSnapshot) domain.PriceEstimates {
	if e.mode == ModeLive {
		return e.liveEstimates(orders.Merge())
	}
	return e.statisticsEstimates(statistics.Merge())
}

func (e *Engine) liveEstimates(merged map[string]json.RawMessage) domain.PriceEstimates {
	estimates := make(domain.PriceEstimates, len(merged))
	for name, raw := range merged {
		var payload domain.OrdersPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			e.logger.Warn("skipping undecodable orders payload", "entity", name, "error", err)
			continue
		}

		var plat []float64
		for _, order := range payload.Orders {
			if order.OrderType == domain.OrderSideSell {
				plat = append(plat, order.Platinum)
			}
		}
		if len(plat) == 0 {
			estimates[name] = domain.NoPrice
			continue
		}
		sort.Float64s(plat)
		estimates[name] = plat[len(plat)/2]
	}
	return estimates
}

func (e *Engine) statisticsEstimates(merged map[string]json.RawMessage) domain.PriceEstimates {
	estimates := make(domain.PriceEstimates, len(merged))
	for name, raw := range merged {
		var payload domain.StatisticsPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			e.logger.Warn("skipping undecodable statistics payload", "entity", name, "error", err)
			continue
		}

		records := payload.Closed[e.window]
		sort.Slice(records, func(i, j int) bool {
			return records[i].Datetime < records[j].Datetime
		})

		span := e.windowDays
		if span > len(records) {
			span = len(records)
		}
		if e.policy == PolicyRecent {
			records = records[len(records)-span:]
		} else {
			records = records[:span]
		}

		if len(records) == 0 {
			estimates[name] = domain.NoPrice
			continue
		}
		var sum float64
		for _, rec := range records {
			sum += rec.Median
		}
		estimates[name] = round2(sum / float64(len(records)))
	}
	return estimates
}

// Valuate recomputes every relic's expected value as the chance-weighted sum
// of its reward estimates; a reward with no usable estimate contributes
// zero. Intact relics additionally get their own market price filled in.
// Values are assigned, not accumulated, so revaluing a catalog is idempotent.
func (e *Engine) Valuate(relics map[string]*domain.Relic, estimates domain.PriceEstimates) {
	for _, relic := range relics {
		var value float64
		for _, reward := range relic.Rewards {
			value += estimates.RewardPrice(reward.ItemName) * reward.Chance / 100
		}
		relic.Value = value

		relic.Price = 0
		if relic.Intact() {
			if p, ok := estimates[relic.Name]; ok && !math.IsInf(p, 1) {
				relic.Price = p
			}
		}
	}
}

// Rank produces the two descending rankings. The value ranking orders
// relics by expected value. The profit ranking orders them by value divided
// by the market price of the relic's Intact form, rounded to 2 decimals; a
// missing or zero divisor yields ratio 0 so unpriceable relics sort last.
// Ties break on name so repeated cycles rank identically.
func (e *Engine) Rank(relics map[string]*domain.Relic, estimates domain.PriceEstimates) (value, profit domain.Ranking) {
	value = make(domain.Ranking, 0, len(relics))
	profit = make(domain.Ranking, 0, len(relics))

	for name, relic := range relics {
		value = append(value, domain.RankedRelic{Name: name, Metric: relic.Value})

		ratio := 0.0
		price := estimates.DivisorPrice(relic.IntactName())
		if price != 0 && !math.IsInf(price, 1) {
			ratio = round2(relic.Value / price)
		}
		profit = append(profit, domain.RankedRelic{Name: name, Metric: ratio})
	}

	sortRanking(value)
	sortRanking(profit)
	return value, profit
}

func sortRanking(r domain.Ranking) {
	sort.Slice(r, func(i, j int) bool {
		if r[i].Metric != r[j].Metric {
			return r[i].Metric > r[j].Metric
		}
		return r[i].Name < r[j].Name
	})
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
