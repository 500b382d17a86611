package warframestat

import "github.com/alanyoungcy/relicbot/internal/domain"

// feedDocument is the top-level drops feed response. The feed carries more
// top-level keys than relics; everything else is ignored here.
type feedDocument struct {
	Relics []APIRelic `json:"relics"`
}

// APIRelic is one relic record as published by the drops feed. The feed
// repeats a relic once per refinement state, each with its own reward odds.
type APIRelic struct {
	Tier      string      `json:"tier"`
	RelicName string      `json:"relicName"`
	State     string      `json:"state"`
	Rewards   []APIReward `json:"rewards"`
}

// APIReward is a single reward slot inside a feed relic record.
type APIReward struct {
	ItemName string  `json:"itemName"`
	Rarity   string  `json:"rarity"`
	Chance   float64 `json:"chance"`
}

// ToDropRecord converts a feed relic to a domain.DropRecord.
func (r *APIRelic) ToDropRecord() domain.DropRecord {
	rewards := make([]domain.Reward, 0, len(r.Rewards))
	for _, rw := range r.Rewards {
		rewards = append(rewards, domain.Reward{
			ItemName: rw.ItemName,
			Rarity:   rw.Rarity,
			Chance:   rw.Chance,
		})
	}
	return domain.DropRecord{
		Tier:     r.Tier,
		BaseName: r.RelicName,
		State:    r.State,
		Rewards:  rewards,
	}
}
