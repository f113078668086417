// Package access decides which request actions a role may perform. It is
// shared by the API server, which enforces it, and the Go client, which uses
// it to decide what to offer.
package access

import (
	"strings"

	"ecopark/internal/model"

	"github.com/google/uuid"
)

// Action is a bit set of request actions.
type Action uint8

const (
	View Action = 1 << iota
	Submit
	Review

	None Action = 0
)

func (a Action) Has(other Action) bool {
	return other != None && a&other == other
}

func (a Action) String() string {
	if a == None {
		return "none"
	}
	var parts []string
	if a.Has(View) {
		parts = append(parts, "view")
	}
	if a.Has(Submit) {
		parts = append(parts, "submit")
	}
	if a.Has(Review) {
		parts = append(parts, "review")
	}
	return strings.Join(parts, ",")
}

// Actor is the authenticated caller.
type Actor struct {
	ID   uuid.UUID
	Role string
	Park string
}

var matrix = map[string]map[string]Action{
	model.KindFund: {
		model.RoleParkStaff: Submit | View,
		model.RoleFinance:   Review | View,
		model.RoleAuditor:   View,
		model.RoleAdmin:     View,
	},
	model.KindEmergency: {
		model.RoleFinance:    Submit | View,
		model.RoleGovernment: Review | View,
		model.RoleAuditor:    View,
		model.RoleAdmin:      View,
	},
	model.KindExtraFunds: {
		model.RoleFinance:    Submit | View,
		model.RoleGovernment: Review | View,
		model.RoleAuditor:    View,
		model.RoleAdmin:      View,
	},
	// Applications are submitted by the public, so no role holds Submit.
	model.KindServiceApplication: {
		model.RoleFinance: Review | View,
		model.RoleAuditor: View,
		model.RoleAdmin:   View,
	},
}

// Allowed returns the actions role may perform on requests of kind.
func Allowed(role, kind string) Action {
	return matrix[kind][role]
}

// Can reports whether role may perform action on requests of kind.
func Can(role, kind string, action Action) bool {
	return Allowed(role, kind).Has(action)
}

// VisibleKinds lists the kinds role may view.
func VisibleKinds(role string) []string {
	var kinds []string
	for _, kind := range model.Kinds {
		if Can(role, kind, View) {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// OwnSubmissionsOnly reports whether role only sees the requests it submitted.
func OwnSubmissionsOnly(role string) bool {
	return role == model.RoleParkStaff
}
