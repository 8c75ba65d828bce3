// Package lifecycle governs template authoring and the maker-checker review flow.
package lifecycle

import (
	"fmt"

	"github.com/vedant-dewangan/RegexFlow/internal/common"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

// Event is a request to move a template between states.
type Event string

// Lifecycle events.
const (
	EventSubmit    Event = "submit"
	EventApprove   Event = "approve"
	EventReject    Event = "reject"
	EventDeprecate Event = "deprecate"
)

type edge struct {
	from model.TemplateStatus
	to   model.TemplateStatus
}

// DEPRECATED has no outgoing edge.
var transitions = map[Event]edge{
	EventSubmit:    {from: model.StatusDraft, to: model.StatusPending},
	EventApprove:   {from: model.StatusPending, to: model.StatusVerified},
	EventReject:    {from: model.StatusPending, to: model.StatusDraft},
	EventDeprecate: {from: model.StatusVerified, to: model.StatusDeprecated},
}

// Next returns the state a template in from moves to on ev.
func Next(from model.TemplateStatus, ev Event) (model.TemplateStatus, error) {
	e, ok := transitions[ev]
	if !ok {
		return "", fmt.Errorf("%w: unknown event %q", common.ErrInvalidTransition, ev)
	}
	if from != e.from {
		return "", fmt.Errorf("%w: cannot %s a %s template", common.ErrInvalidTransition, ev, from)
	}
	return e.to, nil
}

// authorize checks that actor may trigger ev. Creator checks happen once the
// template is loaded.
func authorize(actor model.Actor, ev Event) error {
	var allowed bool
	switch ev {
	case EventSubmit:
		allowed = actor.Role == model.RoleMaker
	case EventApprove, EventReject:
		allowed = actor.Role == model.RoleChecker
	case EventDeprecate:
		allowed = actor.Role == model.RoleChecker || actor.Role == model.RoleAdmin
	}
	if !allowed {
		return fmt.Errorf("%w: role %s cannot %s templates", common.ErrForbidden, actor.Role, ev)
	}
	return nil
}
