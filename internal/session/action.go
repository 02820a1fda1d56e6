package session

import (
	"errors"
	"fmt"

	"culler-cli/internal/model"
)

// ActionKind is a curation shortcut.
type ActionKind int

const (
	ActionPick ActionKind = iota
	ActionReject
	ActionUnflag
	ActionRate
)

var ErrInvalidRating = errors.New("rating must be between 0 and 5")

// Action is one curation request from a shortcut or command.
type Action struct {
	Kind   ActionKind
	Rating int
}

func Pick() Action   { return Action{Kind: ActionPick} }
func Reject() Action { return Action{Kind: ActionReject} }
func Unflag() Action { return Action{Kind: ActionUnflag} }

// Rate sets the star rating, leaving pick/reject flags alone.
func Rate(n int) Action { return Action{Kind: ActionRate, Rating: n} }

func (a Action) String() string {
	switch a.Kind {
	case ActionPick:
		return "pick"
	case ActionReject:
		return "reject"
	case ActionUnflag:
		return "unflag"
	case ActionRate:
		return fmt.Sprintf("rate %d", a.Rating)
	}
	return "unknown"
}

// ParseAction accepts pick, reject, unflag or a rating digit 0-5.
func ParseAction(s string) (Action, error) {
	switch s {
	case "pick", "p":
		return Pick(), nil
	case "reject", "x":
		return Reject(), nil
	case "unflag", "u":
		return Unflag(), nil
	}
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		a := Rate(int(s[0] - '0'))
		return a, a.Validate()
	}
	return Action{}, fmt.Errorf("unknown action: %q", s)
}

func (a Action) Validate() error {
	if a.Kind == ActionRate && (a.Rating < 0 || a.Rating > 5) {
		return ErrInvalidRating
	}
	return nil
}

// Curation computes the fields a successful mutation writes for p.
func (a Action) Curation(p model.Photo) model.Curation {
	c := model.CurationOf(p)
	switch a.Kind {
	case ActionPick:
		c.IsCurated = true
		c.IsTrashed = false
	case ActionReject:
		c.IsCurated = false
		c.IsTrashed = true
	case ActionUnflag:
		c.IsCurated = false
		c.IsTrashed = false
	case ActionRate:
		c.Rating = a.Rating
	}
	return c
}

// ShouldFade is the fade policy: whether a successful action removes the photo from
// the current view after a grace period. Rejecting always fades. Picking and rating
// fade only in triage views. Anything else fades when the updated photo no longer
// belongs in the view.
func ShouldFade(v model.View, a Action, updated model.Photo) bool {
	switch a.Kind {
	case ActionReject:
		return true
	case ActionPick, ActionRate:
		return v.Triage
	}
	return !v.Matches(updated)
}
