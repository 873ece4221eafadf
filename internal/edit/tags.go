package edit

import "strings"

// TagSeparator joins tag identifiers into the stored tag field value.
const TagSeparator = ";"

// TagSet is a duplicate-free list of tag identifiers kept in first-insertion
// order.
type TagSet struct {
	ids []string
}

// NewTagSet builds a set from ids, dropping repeats and empty ids.
func NewTagSet(ids ...string) TagSet {
	var t TagSet
	for _, id := range ids {
		if id == "" || t.Has(id) {
			continue
		}
		t.ids = append(t.ids, id)
	}
	return t
}

// Toggle removes id when present and appends it otherwise.
func (t *TagSet) Toggle(id string) {
	if id == "" {
		return
	}
	if i := t.index(id); i >= 0 {
		t.ids = append(t.ids[:i:i], t.ids[i+1:]...)
		return
	}
	t.ids = append(t.ids, id)
}

// Has reports whether id is selected.
func (t TagSet) Has(id string) bool {
	return t.index(id) >= 0
}

// Len returns the number of selected ids.
func (t TagSet) Len() int {
	return len(t.ids)
}

// Values returns a copy of the ids in insertion order. Never nil.
func (t TagSet) Values() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

// Join serializes the set for the tag field. An empty set yields "".
func (t TagSet) Join() string {
	return strings.Join(t.ids, TagSeparator)
}

func (t TagSet) index(id string) int {
	for i, v := range t.ids {
		if v == id {
			return i
		}
	}
	return -1
}
