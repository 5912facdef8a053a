// Package service contains the application's business logic.
package service

import (
	"bulag/internal/models"
)

// Action is a permission-checked operation on a piece of content.
type Action string

const (
	// ActionEdit modifies content; only its author may do this.
	ActionEdit Action = "edit"
	// ActionDelete soft-deletes content; only its author may do this.
	ActionDelete Action = "delete"
	// ActionHide hides content from regular members.
	ActionHide Action = "hide"
	// ActionUnhide restores hidden content.
	ActionUnhide Action = "unhide"
	// ActionPin pins a post to the top of its community feed.
	ActionPin Action = "pin"
	// ActionPurge permanently removes content rows.
	ActionPurge Action = "purge"
	// ActionVote casts or toggles a vote.
	ActionVote Action = "vote"
	// ActionReport files a report against content.
	ActionReport Action = "report"
)

// Authorize decides whether actor may perform action on content owned by
// ownerID. The first matching rule wins:
//   - suspended accounts may not act at all
//   - edit and delete belong to the author alone, regardless of role
//   - hide, unhide and pin require moderator or admin
//   - purge requires admin
//   - anyone may vote, including on their own content
//   - reporting your own content is forbidden
func Authorize(actor *models.User, action Action, ownerID uint) error {
	if actor == nil {
		return models.NewUnauthorizedError("Authentication required")
	}
	if actor.IsSuspended {
		return models.NewForbiddenError("Account is suspended")
	}

	switch action {
	case ActionEdit, ActionDelete:
		if actor.ID != ownerID {
			return models.NewForbiddenError("Only the author can modify this content")
		}
		return nil
	case ActionHide, ActionUnhide, ActionPin:
		if !actor.IsModerator() {
			return models.NewForbiddenError("Moderator privileges required")
		}
		return nil
	case ActionPurge:
		if !actor.IsAdmin() {
			return models.NewForbiddenError("Admin privileges required")
		}
		return nil
	case ActionVote:
		return nil
	case ActionReport:
		if actor.ID == ownerID {
			return models.NewForbiddenError("You cannot report your own content")
		}
		return nil
	default:
		return models.NewForbiddenError("Unknown action")
	}
}
