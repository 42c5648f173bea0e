package events

import (
	"testing"

	"element_grab/domain/entities"
)

func TestDispatchCallsListenersOfKind(t *testing.T) {
	d := NewDispatcher()
	var got []string
	d.AddListener(entities.EventKeyDown, func(ev entities.Event) { got = append(got, "down:"+ev.Key.Key) })
	d.AddListener(entities.EventKeyUp, func(ev entities.Event) { got = append(got, "up:"+ev.Key.Key) })

	d.Dispatch(entities.Event{Kind: entities.EventKeyDown, Key: &entities.KeyEvent{Key: "a", Code: "KeyA"}})

	if len(got) != 1 || got[0] != "down:a" {
		t.Errorf("expected [down:a], got %v", got)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	remove := d.AddListener(entities.EventBlur, func(entities.Event) { calls++ })

	remove()
	remove()
	d.Dispatch(entities.Event{Kind: entities.EventBlur})

	if calls != 0 {
		t.Errorf("removed listener was called")
	}
	if d.Total() != 0 {
		t.Errorf("expected no listeners, got %d", d.Total())
	}
}

func TestStoppedPropagationSkipsLaterListeners(t *testing.T) {
	d := NewDispatcher()
	later := false
	d.AddListener(entities.EventMouseDown, func(ev entities.Event) {
		ev.Mouse.PreventDefault()
		ev.Mouse.StopPropagation()
	})
	d.AddListener(entities.EventMouseDown, func(entities.Event) { later = true })

	mouse := &entities.MouseEvent{Button: entities.PrimaryButton}
	d.Dispatch(entities.Event{Kind: entities.EventMouseDown, Mouse: mouse})

	if later {
		t.Errorf("listener after stopPropagation was called")
	}
	if !mouse.DefaultPrevented() {
		t.Errorf("expected default to be prevented")
	}
}

func TestListenerRemovedDuringDispatchIsSkipped(t *testing.T) {
	d := NewDispatcher()
	second := false
	var removeSecond func()
	d.AddListener(entities.EventScroll, func(entities.Event) { removeSecond() })
	removeSecond = d.AddListener(entities.EventScroll, func(entities.Event) { second = true })

	d.Dispatch(entities.Event{Kind: entities.EventScroll})

	if second {
		t.Errorf("listener removed mid-dispatch was called")
	}
}
