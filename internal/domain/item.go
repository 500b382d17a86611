package domain

// Item is a distinct relic reward, keyed by its exact upstream name. Rarity
// and Chance are informational and fixed by the item's first appearance in
// the drop table; later occurrences with different values are discarded.
type Item struct {
	Name   string  `json:"itemName"`
	Rarity string  `json:"rarity"`
	Chance float64 `json:"chance"`
	Slug   string  `json:"urlName"`
}
