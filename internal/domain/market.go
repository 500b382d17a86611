package domain

import "time"

// OrderSide distinguishes buy and sell listings.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// Order is a single live listing on the market.
type Order struct {
	Quantity     int       `json:"quantity"`
	Platinum     float64   `json:"platinum"`
	OrderType    OrderSide `json:"order_type"`
	Platform     string    `json:"platform"`
	Region       string    `json:"region"`
	Visible      bool      `json:"visible"`
	CreationDate time.Time `json:"creation_date"`
	LastUpdate   time.Time `json:"last_update"`
	Subtype      string    `json:"subtype,omitempty"`
	User         OrderUser `json:"user"`
}

// OrderUser is the seller/buyer metadata attached to an order.
type OrderUser struct {
	ID              string `json:"id"`
	IngameName      string `json:"ingame_name"`
	Status          string `json:"status"`
	Region          string `json:"region"`
	Reputation      int    `json:"reputation"`
	ReputationBonus int    `json:"reputation_bonus"`
	Avatar          string `json:"avatar,omitempty"`
	LastSeen        string `json:"last_seen,omitempty"`
}

// OrdersPayload is the order-book payload of one entity.
type OrdersPayload struct {
	Orders []Order `json:"orders"`
}

// StatRecord is one per-day row of a closed-trade statistics window.
// Datetime is the upstream ISO timestamp; its lexicographic order is its
// chronological order, so it sorts as a plain string.
type StatRecord struct {
	Datetime string  `json:"datetime"`
	Volume   int     `json:"volume"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	AvgPrice float64 `json:"avg_price"`
	Median   float64 `json:"median"`
}

// StatisticsPayload is the statistics payload of one entity. Closed maps a
// trailing-window name (e.g. "90days") to its per-day records.
type StatisticsPayload struct {
	Closed map[string][]StatRecord `json:"statistics_closed"`
}
