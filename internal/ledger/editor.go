package ledger

import (
	"fmt"

	"github.com/theirongolddev/tally/internal/model"
)

// Editor is the single "currently editing" marker shared by the expense and
// income forms. The zero value is Idle.
type Editor struct {
	editing bool
	kind    model.Kind
	id      string
}

// Idle returns an editor with no edit in flight.
func Idle() Editor { return Editor{} }

// Editing returns an editor targeting record id of kind k.
func Editing(k model.Kind, id string) Editor {
	return Editor{editing: true, kind: k, id: id}
}

// Active reports whether an edit is in flight.
func (e Editor) Active() bool { return e.editing }

// Target returns the kind and ID being edited.
func (e Editor) Target() (model.Kind, string, bool) {
	return e.kind, e.id, e.editing
}

// Targets reports whether an edit of kind k is in flight and returns its ID.
func (e Editor) Targets(k model.Kind) (string, bool) {
	if !e.editing || e.kind != k {
		return "", false
	}
	return e.id, true
}

// Cancel abandons any in-flight edit.
func (e Editor) Cancel() Editor { return Idle() }

// Forget returns Idle if e targets the record (k, id), otherwise e.
// Call it after deleting a record so a pending edit can't outlive it.
func (e Editor) Forget(k model.Kind, id string) Editor {
	if e.editing && e.kind == k && e.id == id {
		return Idle()
	}
	return e
}

func (e Editor) String() string {
	if !e.editing {
		return "idle"
	}
	return fmt.Sprintf("editing %s %s", e.kind, e.id)
}
