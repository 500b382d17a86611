package domain

import "encoding/json"

// PayloadKind selects which market payload a fetch run retrieves. Its value
// doubles as the API path suffix and the raw snapshot name.
type PayloadKind string

const (
	PayloadOrders     PayloadKind = "orders"
	PayloadStatistics PayloadKind = "statistics"
)

// FetchTarget names one entity to fetch market data for: an item, or the
// Intact variant of a relic. Name keys the result; Slug builds the URL.
type FetchTarget struct {
	Name string
	Slug string
}

// EntityPayload is a single-entry mapping from entity display name to its
// raw market payload, the unit a fetch run emits per entity.
type EntityPayload map[string]json.RawMessage

// RawSnapshot is the persisted output of one fetch run: one EntityPayload
// per entity that returned data, in completion order. Ordering carries no
// meaning downstream; consumers key purely by name.
type RawSnapshot []EntityPayload

// Merge flattens the snapshot into a single name-to-payload map.
func (s RawSnapshot) Merge() map[string]json.RawMessage {
	merged := make(map[string]json.RawMessage, len(s))
	for _, entry := range s {
		for name, payload := range entry {
			merged[name] = payload
		}
	}
	return merged
}
