package session

// Viewer is the full-size view over a single photo. It walks the flat list, burst
// members included, and has its own copy of the curation shortcuts.
type Viewer struct {
	index int
}

func (v *Viewer) Index() int { return v.index }

// OpenViewer shows the photo at index. Photos that are fading out cannot be opened.
func (s *Session) OpenViewer(index int) bool {
	if index < 0 || index >= len(s.photos) || s.FadingAt(index) {
		return false
	}
	s.viewer = &Viewer{index: index}
	return true
}

// CloseViewer returns control to the grid. The grid selection is left as it was.
func (s *Session) CloseViewer() {
	s.viewer = nil
}

// Viewer returns the open viewer, if any.
func (s *Session) Viewer() (*Viewer, bool) {
	return s.viewer, s.viewer != nil
}

func (s *Session) viewerKey(ev KeyEvent) Outcome {
	switch ev.Key {
	case KeyEscape:
		s.CloseViewer()
		return Outcome{Handled: true, CloseViewer: true}
	case KeyLeft:
		if s.viewer.index > 0 {
			s.viewer.index--
			return Outcome{Handled: true, Moved: true}
		}
		return Outcome{Handled: true}
	case KeyRight:
		if s.viewer.index < len(s.photos)-1 {
			s.viewer.index++
			return Outcome{Handled: true, Moved: true}
		}
		return Outcome{Handled: true}
	}
	if a, ok := actionForKey(ev.Key); ok {
		open := s.viewer != nil
		reqs := s.Curate(a)
		return Outcome{Handled: true, Moved: len(reqs) > 0, Requests: reqs, CloseViewer: open && s.viewer == nil}
	}
	if out, ok := s.undoKey(ev.Key); ok {
		return out
	}
	return Outcome{}
}

// curateInViewer targets the viewer's photo, then steps to the next photo or
// closes the viewer at the end of the list.
func (s *Session) curateInViewer(a Action) []CurateRequest {
	i := s.viewer.index
	if s.FadingAt(i) {
		return nil
	}
	reqs := s.plan(a, []int{i})
	if i+1 < len(s.photos) {
		s.viewer.index = i + 1
	} else {
		s.viewer = nil
	}
	return reqs
}
