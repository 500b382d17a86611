// Package catalog builds the relic and item catalogs from drop-table feed
// records and derives the market fetch set from them.
package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/alanyoungcy/relicbot/internal/domain"
)

// BuildRelics converts feed records into the relic catalog, keyed by the
// display name "{tier} {baseName} {state}". Value and Price start at zero
// and are filled in by valuation. The snapshot is stamped with now so the
// staleness check can read the timestamp back later.
//
// The slug deliberately omits the refinement state: the market lists one
// tradable entry per relic and groups refinement states under it, so every
// state of a relic shares the slug while keeping its own catalog entry.
func BuildRelics(records []domain.DropRecord, now time.Time) domain.RelicsSnapshot {
	relics := make(map[string]*domain.Relic, len(records))
	for _, rec := range records {
		name := rec.Tier + " " + rec.BaseName + " " + rec.State
		relics[name] = &domain.Relic{
			Tier:     rec.Tier,
			BaseName: rec.BaseName,
			State:    rec.State,
			Name:     name,
			Slug:     relicSlug(rec.Tier, rec.BaseName),
			Rewards:  rec.Rewards,
		}
	}
	return domain.RelicsSnapshot{Relics: relics, Timestamp: now.Unix()}
}

// DeriveItems flattens every relic's rewards into the item catalog, keyed by
// item name. The first occurrence of a name fixes its rarity, chance, and
// slug; later occurrences are discarded. Relics are walked in name order so
// the surviving occurrence is stable across rebuilds.
func DeriveItems(snap domain.RelicsSnapshot) map[string]domain.Item {
	names := make([]string, 0, len(snap.Relics))
	for name := range snap.Relics {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make(map[string]domain.Item)
	for _, name := range names {
		for _, reward := range snap.Relics[name].Rewards {
			if _, seen := items[reward.ItemName]; seen {
				continue
			}
			items[reward.ItemName] = domain.Item{
				Name:   reward.ItemName,
				Rarity: reward.Rarity,
				Chance: reward.Chance,
				Slug:   itemSlug(reward.ItemName),
			}
		}
	}
	return items
}

// Targets returns the market fetch set: every Intact relic (keyed by display
// name, requested by slug) followed by every item, each group name-sorted so
// admission order is reproducible.
func Targets(relics map[string]*domain.Relic, items map[string]domain.Item) []domain.FetchTarget {
	targets := make([]domain.FetchTarget, 0, len(relics)+len(items))
	for name, relic := range relics {
		if !relic.Intact() {
			continue
		}
		targets = append(targets, domain.FetchTarget{Name: name, Slug: relic.Slug})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })

	itemTargets := make([]domain.FetchTarget, 0, len(items))
	for name, item := range items {
		itemTargets = append(itemTargets, domain.FetchTarget{Name: name, Slug: item.Slug})
	}
	sort.Slice(itemTargets, func(i, j int) bool { return itemTargets[i].Name < itemTargets[j].Name })

	return append(targets, itemTargets...)
}

func relicSlug(tier, baseName string) string {
	return strings.ToLower(strings.ReplaceAll(tier+"_"+baseName+"_relic", " ", "_"))
}

func itemSlug(name string) string {
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	return strings.ReplaceAll(slug, "&", "and")
}
