package domain

import (
	"cmp"
	"maps"
	"slices"
)

// ItemPreferences holds the per-cluster visibility and order of aggregated items.
type ItemPreferences struct {
	HiddenItemIDs []string `json:"hiddenItemIDs"`
	Order         []string `json:"order"`
}

// Preferences is the user's visibility and ordering state. It is the only
// state that survives a cluster recompute unchanged.
type Preferences struct {
	HiddenClusterIDs      []string                   `json:"hiddenClusterIDs"`
	ClusterOrderBySection map[Section][]string       `json:"clusterOrderBySection"`
	ItemPrefsByCluster    map[string]ItemPreferences `json:"itemPrefsByCluster"`
}

// Clone returns a deep copy of p.
func (p Preferences) Clone() Preferences {
	out := Preferences{
		HiddenClusterIDs:      slices.Clone(p.HiddenClusterIDs),
		ClusterOrderBySection: make(map[Section][]string, len(p.ClusterOrderBySection)),
		ItemPrefsByCluster:    make(map[string]ItemPreferences, len(p.ItemPrefsByCluster)),
	}
	for section, order := range p.ClusterOrderBySection {
		out.ClusterOrderBySection[section] = slices.Clone(order)
	}
	for id, prefs := range p.ItemPrefsByCluster {
		out.ItemPrefsByCluster[id] = ItemPreferences{
			HiddenItemIDs: slices.Clone(prefs.HiddenItemIDs),
			Order:         slices.Clone(prefs.Order),
		}
	}
	return out
}

// IsClusterHidden reports whether the user hid the cluster.
func (p Preferences) IsClusterHidden(id string) bool {
	return slices.Contains(p.HiddenClusterIDs, id)
}

// ClusterOrder returns the explicit cluster order for a section.
func (p Preferences) ClusterOrder(section Section) []string {
	return p.ClusterOrderBySection[section]
}

// Items returns the item preferences of a cluster.
func (p Preferences) Items(clusterID string) ItemPreferences {
	return p.ItemPrefsByCluster[clusterID]
}

// HideCluster adds id to the hidden set. It reports whether p changed.
func (p *Preferences) HideCluster(id string) bool {
	if p.IsClusterHidden(id) {
		return false
	}
	p.HiddenClusterIDs = append(p.HiddenClusterIDs, id)
	return true
}

// SetClusterOrder replaces the explicit order of a section.
func (p *Preferences) SetClusterOrder(section Section, ids []string) {
	if p.ClusterOrderBySection == nil {
		p.ClusterOrderBySection = make(map[Section][]string)
	}
	p.ClusterOrderBySection[section] = slices.Clone(ids)
}

// HideItem hides an aggregated item within a cluster. It reports whether p changed.
func (p *Preferences) HideItem(clusterID, itemID string) bool {
	prefs := p.Items(clusterID)
	if slices.Contains(prefs.HiddenItemIDs, itemID) {
		return false
	}
	prefs.HiddenItemIDs = append(slices.Clone(prefs.HiddenItemIDs), itemID)
	p.setItems(clusterID, prefs)
	return true
}

// SetItemOrder replaces the explicit item order of a cluster.
func (p *Preferences) SetItemOrder(clusterID string, ids []string) {
	prefs := p.Items(clusterID)
	prefs.Order = slices.Clone(ids)
	p.setItems(clusterID, prefs)
}

func (p *Preferences) setItems(clusterID string, prefs ItemPreferences) {
	if p.ItemPrefsByCluster == nil {
		p.ItemPrefsByCluster = make(map[string]ItemPreferences)
	}
	p.ItemPrefsByCluster[clusterID] = prefs
}

// Equal reports whether two preference records hold the same state.
func (p Preferences) Equal(other Preferences) bool {
	if !slices.Equal(p.HiddenClusterIDs, other.HiddenClusterIDs) {
		return false
	}
	if !maps.EqualFunc(p.ClusterOrderBySection, other.ClusterOrderBySection, slices.Equal[[]string]) {
		return false
	}
	return maps.EqualFunc(p.ItemPrefsByCluster, other.ItemPrefsByCluster, func(a, b ItemPreferences) bool {
		return slices.Equal(a.HiddenItemIDs, b.HiddenItemIDs) && slices.Equal(a.Order, b.Order)
	})
}

// orderIndex maps each id of an explicit order to its first position.
func orderIndex(order []string) map[string]int {
	index := make(map[string]int, len(order))
	for i, id := range order {
		if _, ok := index[id]; !ok {
			index[id] = i
		}
	}
	return index
}

// compareExplicit orders entries with an explicit index before entries
// without one. decided is false when neither entry has an index.
func compareExplicit(index map[string]int, a, b string) (result int, decided bool) {
	ia, okA := index[a]
	ib, okB := index[b]
	switch {
	case okA && okB:
		return cmp.Compare(ia, ib), true
	case okA:
		return -1, true
	case okB:
		return 1, true
	default:
		return 0, false
	}
}

// sortClusters orders clusters by the explicit order, then by name.
// Ties on name fall back to the id so the result never depends on input order.
func sortClusters(clusters []Cluster, order []string) []Cluster {
	index := orderIndex(order)
	sorted := slices.Clone(clusters)
	slices.SortFunc(sorted, func(a, b Cluster) int {
		if c, ok := compareExplicit(index, a.ID(), b.ID()); ok {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})
	return sorted
}

// ApplyClusterPreferences returns the visible clusters of one section in the
// user's order.
func ApplyClusterPreferences(section Section, clusters []Cluster, prefs Preferences) []Cluster {
	var visible []Cluster
	for _, c := range clusters {
		if c.Section() == section && !prefs.IsClusterHidden(c.ID()) {
			visible = append(visible, c)
		}
	}
	return sortClusters(visible, prefs.ClusterOrder(section))
}

// ApplyItemPreferences returns the visible aggregated items of a cluster in
// the user's order. Items without an explicit position follow by count, then
// by content length.
func ApplyItemPreferences(clusterID string, items []AggregatedItem, prefs Preferences) []AggregatedItem {
	itemPrefs := prefs.Items(clusterID)

	var visible []AggregatedItem
	for _, item := range items {
		if !slices.Contains(itemPrefs.HiddenItemIDs, item.ID) {
			visible = append(visible, item)
		}
	}

	index := orderIndex(itemPrefs.Order)
	slices.SortStableFunc(visible, func(a, b AggregatedItem) int {
		if c, ok := compareExplicit(index, a.ID, b.ID); ok {
			return c
		}
		return compareAggregated(a, b)
	})
	return visible
}

// MoveIDs moves the entries at the from positions so that they land before
// position to of the original list, the way a list drag does.
func MoveIDs(ids []string, from []int, to int) []string {
	offsets := slices.Clone(from)
	slices.Sort(offsets)
	offsets = slices.Compact(offsets)

	moving := make([]string, 0, len(offsets))
	remaining := make([]string, 0, len(ids))
	skip := make(map[int]bool, len(offsets))
	for _, i := range offsets {
		if i >= 0 && i < len(ids) {
			moving = append(moving, ids[i])
			skip[i] = true
		}
	}
	for i, id := range ids {
		if !skip[i] {
			remaining = append(remaining, id)
		}
	}

	dest := to
	for i := range skip {
		if i < to {
			dest--
		}
	}
	dest = max(0, min(dest, len(remaining)))

	result := make([]string, 0, len(ids))
	result = append(result, remaining[:dest]...)
	result = append(result, moving...)
	result = append(result, remaining[dest:]...)
	return result
}
