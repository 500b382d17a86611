package domain

import "strings"

// StateIntact is the unopened, tradable relic state. It is the only state
// with a directly observable market price.
const StateIntact = "Intact"

// Relic is a loot container keyed by (tier, base name, state). Reward
// chances are percentages and need not sum to 100, since drop tables list
// chances across rarity tiers independently.
type Relic struct {
	Tier     string   `json:"tier"`
	BaseName string   `json:"baseName"`
	State    string   `json:"state"`
	Name     string   `json:"relicName"`
	Slug     string   `json:"urlName"`
	Rewards  []Reward `json:"rewards"`
	Value    float64  `json:"value"`
	Price    float64  `json:"price"`
}

// Intact reports whether the relic is the tradable Intact variant.
func (r *Relic) Intact() bool {
	return r.State == StateIntact
}

// IntactName returns the display name of the relic's Intact variant: the
// first two tokens of the relic's name plus the literal "Intact" suffix.
// This is the key its market price is indexed under.
func (r *Relic) IntactName() string {
	parts := strings.Fields(r.Name)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, " ") + " " + StateIntact
}

// Reward is one drop-table entry of a relic.
type Reward struct {
	ItemName string  `json:"itemName"`
	Rarity   string  `json:"rarity"`
	Chance   float64 `json:"chance"`
}

// DropRecord is one row of the upstream drop-table feed.
type DropRecord struct {
	Tier     string
	BaseName string
	State    string
	Rewards  []Reward
}

// RelicsSnapshot is the persisted relic catalog together with its refresh
// timestamp (seconds since epoch), which drives the 24-hour staleness policy.
type RelicsSnapshot struct {
	Relics    map[string]*Relic `json:"relics"`
	Timestamp int64             `json:"timestamp"`
}
