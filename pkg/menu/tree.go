package menu

import "strings"

// Position selects where a new entry goes relative to its siblings.
type Position int

const (
	PositionAppend Position = iota
	PositionBefore
	PositionAfter
)

func (p Position) String() string {
	switch p {
	case PositionBefore:
		return "before"
	case PositionAfter:
		return "after"
	default:
		return "append"
	}
}

// ParsePosition maps the wire form of a position. An empty string means
// append.
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "append", "last":
		return PositionAppend, nil
	case "before":
		return PositionBefore, nil
	case "after":
		return PositionAfter, nil
	default:
		return PositionAppend, invalidArg("position not implemented: %s", s)
	}
}

// findByID searches list pre-order: the direct children of a level are
// checked before descending into their submenus. With remove set, a match
// is also spliced out of the slice that holds it.
func findByID(list *[]*Entry, id string, remove bool) *Entry {
	for i, e := range *list {
		if e.ID == id {
			if remove {
				*list = append((*list)[:i:i], (*list)[i+1:]...)
			}
			return e
		}
	}
	for _, e := range *list {
		if e.Children == nil {
			continue
		}
		if found := findByID(&e.Children, id, remove); found != nil {
			return found
		}
	}
	return nil
}

// insertRelative places entry into list. Before and after look relativeID
// up among the direct members of list only; a miss leaves list untouched.
func insertRelative(list []*Entry, entry *Entry, pos Position, relativeID string) ([]*Entry, error) {
	if pos == PositionAppend {
		return append(list, entry), nil
	}

	idx := -1
	for i, e := range list {
		if e.ID == relativeID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return list, newError(CodeNotFound, "can't find item with id: %s", relativeID)
	}
	if pos == PositionAfter {
		idx++
	}

	out := make([]*Entry, 0, len(list)+1)
	out = append(out, list[:idx]...)
	out = append(out, entry)
	out = append(out, list[idx:]...)
	return out, nil
}

// walk visits every entry pre-order.
func walk(list []*Entry, fn func(*Entry)) {
	for _, e := range list {
		fn(e)
		if e.Children != nil {
			walk(e.Children, fn)
		}
	}
}

func countEntries(list []*Entry) int {
	n := 0
	walk(list, func(*Entry) { n++ })
	return n
}
