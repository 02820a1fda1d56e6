package session

import "culler-cli/internal/gallery"

// Key is a normalized keyboard shortcut.
type Key string

const (
	KeyLeft        Key = "left"
	KeyRight       Key = "right"
	KeyUp          Key = "up"
	KeyDown        Key = "down"
	KeyEnter       Key = "enter"
	KeySpace       Key = "space"
	KeyEscape      Key = "esc"
	KeyPick        Key = "p"
	KeyReject      Key = "x"
	KeyUnflag      Key = "u"
	KeyToggleBurst Key = "e"
	KeyToggleGroup Key = "g"
	KeyUndo        Key = "z"
	KeyUndoAll     Key = "Z"
)

// KeyEvent is a key press together with the layout it happened in.
type KeyEvent struct {
	Key Key
	// Columns is the live grid column count, needed for vertical moves.
	Columns int
	// TextFocus is set while a text input owns the keyboard.
	TextFocus bool
}

// Outcome tells the caller what a key or click did.
type Outcome struct {
	Handled     bool
	Moved       bool
	OpenViewer  bool
	CloseViewer bool
	// Requests are mutations the caller must run (see RunCurations) and feed back
	// through Apply.
	Requests []CurateRequest
	// Undone lists keys whose pending removal was cancelled.
	Undone []string
}

func actionForKey(k Key) (Action, bool) {
	switch k {
	case KeyPick:
		return Pick(), true
	case KeyReject:
		return Reject(), true
	case KeyUnflag:
		return Unflag(), true
	}
	if len(k) == 1 && k[0] >= '0' && k[0] <= '5' {
		return Rate(int(k[0] - '0')), true
	}
	return Action{}, false
}

func directionForKey(k Key) (gallery.Direction, bool) {
	switch k {
	case KeyLeft:
		return gallery.Left, true
	case KeyRight:
		return gallery.Right, true
	case KeyUp:
		return gallery.Up, true
	case KeyDown:
		return gallery.Down, true
	}
	return 0, false
}

// HandleKey dispatches a shortcut. Nothing happens while a text input has focus.
// With the viewer open, keys go to the viewer instead of the grid.
func (s *Session) HandleKey(ev KeyEvent) Outcome {
	if ev.TextFocus {
		return Outcome{}
	}
	if s.viewer != nil {
		return s.viewerKey(ev)
	}

	if dir, ok := directionForKey(ev.Key); ok {
		_, moved := s.engine.Move(dir, ev.Columns)
		return Outcome{Handled: true, Moved: moved}
	}
	if a, ok := actionForKey(ev.Key); ok {
		reqs := s.Curate(a)
		return Outcome{Handled: true, Moved: len(reqs) > 0, Requests: reqs}
	}
	if out, ok := s.undoKey(ev.Key); ok {
		return out
	}

	switch ev.Key {
	case KeyEnter, KeySpace:
		i, ok := s.engine.Cursor()
		if !ok {
			return Outcome{Handled: true}
		}
		return Outcome{Handled: true, OpenViewer: s.OpenViewer(i)}
	case KeyToggleBurst:
		i, ok := s.engine.Cursor()
		if !ok {
			return Outcome{Handled: true}
		}
		_, toggled := s.engine.ToggleBurst(i)
		return Outcome{Handled: true, Moved: toggled}
	case KeyToggleGroup:
		i, ok := s.engine.Cursor()
		if !ok {
			return Outcome{Handled: true}
		}
		pos, ok := s.engine.LocateGroup(i)
		if !ok {
			return Outcome{Handled: true}
		}
		return Outcome{Handled: true, Moved: s.engine.ToggleGroup(pos.GroupIndex)}
	}
	return Outcome{}
}

func (s *Session) undoKey(k Key) (Outcome, bool) {
	switch k {
	case KeyUndo:
		key, ok := s.UndoLatest()
		if !ok {
			return Outcome{Handled: true}, true
		}
		return Outcome{Handled: true, Undone: []string{key}}, true
	case KeyUndoAll:
		var keys []string
		for _, e := range s.fades.Entries() {
			keys = append(keys, e.Key)
		}
		s.UndoAll()
		return Outcome{Handled: true, Undone: keys}, true
	}
	return Outcome{}, false
}
