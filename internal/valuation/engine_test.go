package valuation

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/alanyoungcy/relicbot/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func liveEngine() *Engine {
	return New(ModeLive, "90days", 7, PolicyOldest, discardLogger())
}

func statsEngine(policy WindowPolicy) *Engine {
	return New(ModeStatistics, "90days", 7, policy, discardLogger())
}

func rawSnap(t *testing.T, entities map[string]any) domain.RawSnapshot {
	t.Helper()
	snap := make(domain.RawSnapshot, 0, len(entities))
	for name, payload := range entities {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal %s: %v", name, err)
		}
		snap = append(snap, domain.EntityPayload{name: raw})
	}
	return snap
}

func sellOrders(plat ...float64) domain.OrdersPayload {
	var p domain.OrdersPayload
	for _, v := range plat {
		p.Orders = append(p.Orders, domain.Order{Platinum: v, OrderType: domain.OrderSideSell})
	}
	return p
}

func TestLiveEstimatesUpperMedian(t *testing.T) {
	tests := []struct {
		name string
		plat []float64
		want float64
	}{
		{name: "even count takes upper", plat: []float64{10, 20}, want: 20},
		{name: "odd count takes middle", plat: []float64{20, 5, 10}, want: 10},
		{name: "single order", plat: []float64{7}, want: 7},
		{name: "four orders", plat: []float64{4, 1, 3, 2}, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := rawSnap(t, map[string]any{"Forma Blueprint": sellOrders(tt.plat...)})
			got := liveEngine().Estimates(orders, nil)
			if got["Forma Blueprint"] != tt.want {
				t.Errorf("estimate = %v, want %v", got["Forma Blueprint"], tt.want)
			}
		})
	}
}

func TestLiveEstimatesIgnoreBuyOrders(t *testing.T) {
	payload := sellOrders(30)
	payload.Orders = append(payload.Orders,
		domain.Order{Platinum: 1, OrderType: domain.OrderSideBuy},
		domain.Order{Platinum: 2, OrderType: domain.OrderSideBuy},
	)
	orders := rawSnap(t, map[string]any{"Forma Blueprint": payload})

	got := liveEngine().Estimates(orders, nil)
	if got["Forma Blueprint"] != 30 {
		t.Errorf("estimate = %v, want 30 (buy orders must not count)", got["Forma Blueprint"])
	}
}

func TestLiveEstimatesNoSells(t *testing.T) {
	orders := rawSnap(t, map[string]any{"Forma Blueprint": sellOrders()})

	got := liveEngine().Estimates(orders, nil)
	if !math.IsInf(got["Forma Blueprint"], 1) {
		t.Errorf("estimate = %v, want NoPrice for empty sell side", got["Forma Blueprint"])
	}
}

func statRecords(medians ...float64) domain.StatisticsPayload {
	recs := make([]domain.StatRecord, 0, len(medians))
	for i, m := range medians {
		recs = append(recs, domain.StatRecord{
			Datetime: fmt.Sprintf("2026-01-%02dT00:00:00.000+00:00", i+1),
			Median:   m,
		})
	}
	// Shuffle deterministically so the engine has to sort by datetime.
	for i := range recs {
		j := (i * 7) % len(recs)
		recs[i], recs[j] = recs[j], recs[i]
	}
	return domain.StatisticsPayload{Closed: map[string][]domain.StatRecord{"90days": recs}}
}

func TestStatisticsEstimatesWindowPolicies(t *testing.T) {
	stats := rawSnap(t, map[string]any{
		"Forma Blueprint": statRecords(1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
	})

	// Oldest seven of 1..10 average to 4, most recent seven to 7.
	if got := statsEngine(PolicyOldest).Estimates(nil, stats); got["Forma Blueprint"] != 4 {
		t.Errorf("oldest policy estimate = %v, want 4", got["Forma Blueprint"])
	}
	if got := statsEngine(PolicyRecent).Estimates(nil, stats); got["Forma Blueprint"] != 7 {
		t.Errorf("recent policy estimate = %v, want 7", got["Forma Blueprint"])
	}
}

func TestStatisticsEstimatesShortWindow(t *testing.T) {
	stats := rawSnap(t, map[string]any{
		"Forma Blueprint": statRecords(1, 2, 2),
	})

	got := statsEngine(PolicyOldest).Estimates(nil, stats)
	if got["Forma Blueprint"] != 1.67 {
		t.Errorf("estimate = %v, want 1.67 (mean of 3 records rounded)", got["Forma Blueprint"])
	}
}

func TestStatisticsEstimatesEmptyWindow(t *testing.T) {
	stats := rawSnap(t, map[string]any{
		"Forma Blueprint": domain.StatisticsPayload{Closed: map[string][]domain.StatRecord{}},
		"Braton Prime Stock": domain.StatisticsPayload{
			Closed: map[string][]domain.StatRecord{"48hours": {{Datetime: "2026-01-01", Median: 5}}},
		},
	})

	got := statsEngine(PolicyOldest).Estimates(nil, stats)
	for _, name := range []string{"Forma Blueprint", "Braton Prime Stock"} {
		if !math.IsInf(got[name], 1) {
			t.Errorf("estimate for %s = %v, want NoPrice", name, got[name])
		}
	}
}

func TestEstimatesSkipUndecodablePayloads(t *testing.T) {
	orders := domain.RawSnapshot{
		domain.EntityPayload{"Broken": json.RawMessage(`{"orders": [`)},
	}
	orders = append(orders, rawSnap(t, map[string]any{"Forma Blueprint": sellOrders(12)})...)

	got := liveEngine().Estimates(orders, nil)
	if _, ok := got["Broken"]; ok {
		t.Error("undecodable payload produced an estimate")
	}
	if got["Forma Blueprint"] != 12 {
		t.Errorf("estimate = %v, want 12", got["Forma Blueprint"])
	}
}

func testRelics() map[string]*domain.Relic {
	return map[string]*domain.Relic{
		"Lith A1 Intact": {
			Tier: "Lith", BaseName: "A1", State: "Intact", Name: "Lith A1 Intact",
			Rewards: []domain.Reward{
				{ItemName: "Forma Blueprint", Chance: 25},
				{ItemName: "Gauss Prime Blueprint", Chance: 2},
				{ItemName: "Never Fetched", Chance: 50},
			},
		},
		"Lith A1 Radiant": {
			Tier: "Lith", BaseName: "A1", State: "Radiant", Name: "Lith A1 Radiant",
			Rewards: []domain.Reward{
				{ItemName: "Gauss Prime Blueprint", Chance: 10},
			},
		},
		"Axi B2 Intact": {
			Tier: "Axi", BaseName: "B2", State: "Intact", Name: "Axi B2 Intact",
			Rewards: []domain.Reward{
				{ItemName: "Unpriceable", Chance: 100},
			},
		},
	}
}

func TestValuate(t *testing.T) {
	relics := testRelics()
	estimates := domain.PriceEstimates{
		"Forma Blueprint":       10,
		"Gauss Prime Blueprint": 100,
		"Unpriceable":           domain.NoPrice,
		"Lith A1 Intact":        4,
	}

	e := liveEngine()
	e.Valuate(relics, estimates)

	// 10*25/100 + 100*2/100, with the never-fetched reward contributing 0.
	if got := relics["Lith A1 Intact"].Value; got != 4.5 {
		t.Errorf("Lith A1 Intact value = %v, want 4.5", got)
	}
	if got := relics["Lith A1 Radiant"].Value; got != 10 {
		t.Errorf("Lith A1 Radiant value = %v, want 10", got)
	}
	// A NoPrice reward estimate contributes zero, not infinity.
	if got := relics["Axi B2 Intact"].Value; got != 0 {
		t.Errorf("Axi B2 Intact value = %v, want 0", got)
	}

	if got := relics["Lith A1 Intact"].Price; got != 4 {
		t.Errorf("Lith A1 Intact price = %v, want 4", got)
	}
	if got := relics["Lith A1 Radiant"].Price; got != 0 {
		t.Errorf("Lith A1 Radiant price = %v, want 0 (not Intact)", got)
	}

	// Revaluing assigns rather than accumulates.
	e.Valuate(relics, estimates)
	if got := relics["Lith A1 Intact"].Value; got != 4.5 {
		t.Errorf("value after revaluing = %v, want 4.5", got)
	}
}

func TestRank(t *testing.T) {
	relics := testRelics()
	estimates := domain.PriceEstimates{
		"Forma Blueprint":       10,
		"Gauss Prime Blueprint": 100,
		"Unpriceable":           domain.NoPrice,
		"Lith A1 Intact":        4,
		// Axi B2 Intact has no estimate at all.
	}

	e := liveEngine()
	e.Valuate(relics, estimates)
	value, profit := e.Rank(relics, estimates)

	wantValue := []string{"Lith A1 Radiant", "Lith A1 Intact", "Axi B2 Intact"}
	for i, want := range wantValue {
		if value[i].Name != want {
			t.Errorf("value[%d] = %s, want %s", i, value[i].Name, want)
		}
	}

	// Both Lith states divide by the Lith A1 Intact price of 4:
	// Radiant 10/4 = 2.5, Intact 4.5/4 = 1.13 (rounded). Axi B2 has no
	// Intact price, so its ratio is 0 and it sorts last.
	wantProfit := []struct {
		name   string
		metric float64
	}{
		{"Lith A1 Radiant", 2.5},
		{"Lith A1 Intact", 1.13},
		{"Axi B2 Intact", 0},
	}
	for i, want := range wantProfit {
		if profit[i].Name != want.name || profit[i].Metric != want.metric {
			t.Errorf("profit[%d] = %s/%v, want %s/%v",
				i, profit[i].Name, profit[i].Metric, want.name, want.metric)
		}
	}
}

func TestRankUnpriceableIntactSortsLast(t *testing.T) {
	relics := map[string]*domain.Relic{
		"Meso C3 Intact": {
			Tier: "Meso", BaseName: "C3", State: "Intact", Name: "Meso C3 Intact",
			Rewards: []domain.Reward{{ItemName: "Forma Blueprint", Chance: 100}},
		},
		"Neo D4 Intact": {
			Tier: "Neo", BaseName: "D4", State: "Intact", Name: "Neo D4 Intact",
			Rewards: []domain.Reward{{ItemName: "Forma Blueprint", Chance: 10}},
		},
	}
	estimates := domain.PriceEstimates{
		"Forma Blueprint": 10,
		"Meso C3 Intact":  domain.NoPrice, // fetched, zero sell offers
		"Neo D4 Intact":   2,
	}

	e := liveEngine()
	e.Valuate(relics, estimates)
	_, profit := e.Rank(relics, estimates)

	// Meso C3 has the higher value (10 vs 1) but no usable price, so the
	// priceable Neo D4 (1/2 = 0.5) ranks above it.
	if profit[0].Name != "Neo D4 Intact" || profit[0].Metric != 0.5 {
		t.Errorf("profit[0] = %s/%v, want Neo D4 Intact/0.5", profit[0].Name, profit[0].Metric)
	}
	if profit[1].Name != "Meso C3 Intact" || profit[1].Metric != 0 {
		t.Errorf("profit[1] = %s/%v, want Meso C3 Intact/0", profit[1].Name, profit[1].Metric)
	}
}

func TestRankTieBreaksOnName(t *testing.T) {
	relics := map[string]*domain.Relic{
		"Neo Z9 Intact":  {Name: "Neo Z9 Intact", State: "Intact"},
		"Axi A1 Intact":  {Name: "Axi A1 Intact", State: "Intact"},
		"Lith M5 Intact": {Name: "Lith M5 Intact", State: "Intact"},
	}

	e := liveEngine()
	value, profit := e.Rank(relics, domain.PriceEstimates{})

	want := []string{"Axi A1 Intact", "Lith M5 Intact", "Neo Z9 Intact"}
	for i, name := range want {
		if value[i].Name != name {
			t.Errorf("value[%d] = %s, want %s", i, value[i].Name, name)
		}
		if profit[i].Name != name {
			t.Errorf("profit[%d] = %s, want %s", i, profit[i].Name, name)
		}
	}
}
