package hotkeys

import (
	"strings"

	"element_grab/domain/entities"
)

// formTagsAndRoles lists tags and ARIA roles that take text or selection input
var formTagsAndRoles = map[string]struct{}{
	"input":            {},
	"textarea":         {},
	"select":           {},
	"searchbox":        {},
	"slider":           {},
	"spinbutton":       {},
	"menuitem":         {},
	"menuitemcheckbox": {},
	"menuitemradio":    {},
	"option":           {},
	"radio":            {},
	"textbox":          {},
	"combobox":         {},
}

// IsFormControl - reports whether target is a form control by tag or role
func IsFormControl(target *entities.EventTarget) bool {
	if target == nil || target.Tag == "" {
		return false
	}
	if _, ok := formTagsAndRoles[strings.ToLower(target.Tag)]; ok {
		return true
	}
	_, ok := formTagsAndRoles[target.Role]
	return ok
}

// IsTriggeredByInput - reports whether a keyboard event came from a form control.
// For composed events from a custom element the innermost node of the composed path is checked.
func IsTriggeredByInput(ev entities.KeyEvent) bool {
	target := ev.Target
	if target != nil && target.IsCustomElement() && ev.Composed && ev.PathTarget != nil {
		target = ev.PathTarget
	}
	return IsFormControl(target)
}
