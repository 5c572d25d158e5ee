package menu

import (
	"errors"
	"testing"
)

func ids(list []*Entry) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func flatList(idList ...string) []*Entry {
	out := make([]*Entry, len(idList))
	for i, id := range idList {
		out[i] = &Entry{ID: id, Label: id}
	}
	return out
}

func TestInsertRelativeAfter(t *testing.T) {
	for _, target := range []string{"a", "b", "c"} {
		list := flatList("a", "b", "c")
		out, err := insertRelative(list, &Entry{ID: "new"}, PositionAfter, target)
		if err != nil {
			t.Fatalf("insert after %s: %v", target, err)
		}
		for i, e := range out {
			if e.ID == target {
				if i+1 >= len(out) || out[i+1].ID != "new" {
					t.Fatalf("expected new right after %s, got %v", target, ids(out))
				}
			}
		}
	}
}

func TestInsertRelativeBefore(t *testing.T) {
	out, err := insertRelative(flatList("a", "b"), &Entry{ID: "new"}, PositionBefore, "a")
	if err != nil {
		t.Fatalf("insert before: %v", err)
	}
	if want := []string{"new", "a", "b"}; !equalIDs(ids(out), want) {
		t.Fatalf("got %v, want %v", ids(out), want)
	}
}

func TestInsertRelativeAppend(t *testing.T) {
	out, err := insertRelative(flatList("a"), &Entry{ID: "new"}, PositionAppend, "ignored")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if want := []string{"a", "new"}; !equalIDs(ids(out), want) {
		t.Fatalf("got %v, want %v", ids(out), want)
	}
}

func TestInsertRelativeMissingTarget(t *testing.T) {
	list := flatList("a", "b")
	out, err := insertRelative(list, &Entry{ID: "new"}, PositionAfter, "zzz")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if want := []string{"a", "b"}; !equalIDs(ids(out), want) || !equalIDs(ids(list), want) {
		t.Fatalf("list mutated: %v", ids(out))
	}
}

func TestInsertRelativeIgnoresNestedTarget(t *testing.T) {
	list := flatList("a")
	list[0].Children = flatList("nested")
	if _, err := insertRelative(list, &Entry{ID: "new"}, PositionBefore, "nested"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for nested relative id, got %v", err)
	}
}

func TestFindByIDPreOrder(t *testing.T) {
	root := flatList("file", "edit")
	root[0].Children = flatList("file.open", "file.recent")
	root[0].Children[1].Children = flatList("file.recent.clear")
	root[1].Children = flatList("edit.undo")

	for _, id := range []string{"edit", "file.recent.clear", "edit.undo"} {
		if got := findByID(&root, id, false); got == nil || got.ID != id {
			t.Fatalf("findByID(%s) = %v", id, got)
		}
	}
	if got := findByID(&root, "missing", false); got != nil {
		t.Fatalf("expected nil for missing id, got %v", got)
	}
}

func TestFindByIDRemove(t *testing.T) {
	root := flatList("file", "edit")
	root[0].Children = flatList("file.open")

	got := findByID(&root, "file.open", true)
	if got == nil || got.ID != "file.open" {
		t.Fatalf("expected removed entry, got %v", got)
	}
	if !root[0].HasSubmenu() {
		t.Fatalf("expected file to remain a submenu after its last child is removed")
	}
	if len(root[0].Children) != 0 {
		t.Fatalf("expected empty submenu, got %v", ids(root[0].Children))
	}

	findByID(&root, "file", true)
	if want := []string{"edit"}; !equalIDs(ids(root), want) {
		t.Fatalf("got %v, want %v", ids(root), want)
	}
}

func TestParsePosition(t *testing.T) {
	for in, want := range map[string]Position{"": PositionAppend, "append": PositionAppend, "before": PositionBefore, "After": PositionAfter} {
		got, err := ParsePosition(in)
		if err != nil || got != want {
			t.Fatalf("ParsePosition(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePosition("firstInSection"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
