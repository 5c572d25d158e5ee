package render

import "github.com/fullstackenviormentss/brackets-electron/pkg/menu"

// separatorTitle stands in for separators so they can be hidden on rebuild.
const separatorTitle = "—"

// trayItem is how one menu entry is drawn in the tray.
type trayItem struct {
	title     string
	tooltip   string
	checkable bool // created with the checkbox constructors
	checked   bool
	disabled  bool
	clickable bool
}

func trayItemFor(e *menu.Entry) trayItem {
	if e.Kind == menu.KindSeparator {
		return trayItem{title: separatorTitle, disabled: true}
	}
	return trayItem{
		title:     e.Label,
		tooltip:   e.Shortcut,
		checkable: e.Kind == menu.KindCheckbox,
		checked:   e.Kind == menu.KindCheckbox && e.IsChecked(),
		disabled:  !e.IsEnabled(),
		clickable: true,
	}
}
