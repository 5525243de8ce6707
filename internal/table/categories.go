package table

import (
	"sort"
	"strings"
)

// CategorySet is the category filter: every distinct category of the
// table and whether its checkbox is ticked.
type CategorySet struct {
	names   []string
	checked map[string]bool
}

// NewCategorySet collects the distinct trimmed categories of rows, sorted,
// all checked.
func NewCategorySet(rows []*Row) *CategorySet {
	cs := &CategorySet{checked: make(map[string]bool)}
	for _, r := range rows {
		name := strings.TrimSpace(r.Category)
		if _, seen := cs.checked[name]; seen {
			continue
		}
		cs.checked[name] = true
		cs.names = append(cs.names, name)
	}
	sort.Strings(cs.names)
	return cs
}

func (cs *CategorySet) Names() []string {
	return cs.names
}

func (cs *CategorySet) Checked(name string) bool {
	return cs.checked[strings.TrimSpace(name)]
}

// Set ticks or unticks one category. Unknown names are ignored.
func (cs *CategorySet) Set(name string, checked bool) bool {
	name = strings.TrimSpace(name)
	if _, ok := cs.checked[name]; !ok {
		return false
	}
	cs.checked[name] = checked
	return true
}

// ToggleAll unticks everything when all categories are ticked and ticks
// everything otherwise.
func (cs *CategorySet) ToggleAll() {
	target := !cs.AllChecked()
	for _, name := range cs.names {
		cs.checked[name] = target
	}
}

func (cs *CategorySet) AllChecked() bool {
	for _, name := range cs.names {
		if !cs.checked[name] {
			return false
		}
	}
	return true
}

// Active returns the ticked categories in display order.
func (cs *CategorySet) Active() []string {
	active := make([]string, 0, len(cs.names))
	for _, name := range cs.names {
		if cs.checked[name] {
			active = append(active, name)
		}
	}
	return active
}

// CategoryOption is one checkbox of the filter dropdown.
type CategoryOption struct {
	Name    string
	Checked bool
}

func (cs *CategorySet) Options() []CategoryOption {
	opts := make([]CategoryOption, len(cs.names))
	for i, name := range cs.names {
		opts[i] = CategoryOption{Name: name, Checked: cs.checked[name]}
	}
	return opts
}
