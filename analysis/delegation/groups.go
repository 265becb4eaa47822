package delegation

import (
	"sort"

	uf "github.com/spakin/disjoint"
)

// Groups partitions every linked slot, callers and callees alike, into sets
// of slots connected by delegation links. Slots in a group carry the same
// value and can share a name. Each group is sorted, and groups are ordered
// by their first slot.
func (idx *Index) Groups() [][]Entry {
	elems := make(map[Entry]*uf.Element)
	elem := func(e Entry) *uf.Element {
		el, found := elems[e]
		if !found {
			el = uf.NewElement()
			el.Data = e
			elems[e] = el
		}
		return el
	}

	for _, from := range idx.order {
		uf.Union(elem(from), elem(idx.links[from]))
	}

	sets := make(map[*uf.Element][]Entry)
	for e, el := range elems {
		rep := el.Find()
		sets[rep] = append(sets[rep], e)
	}

	groups := make([][]Entry, 0, len(sets))
	for _, group := range sets {
		sort.Slice(group, func(i, j int) bool { return group[i].Less(group[j]) })
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0].Less(groups[j][0]) })
	return groups
}
