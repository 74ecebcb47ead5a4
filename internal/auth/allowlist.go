// Package auth gates chat commands behind a static user allow list.
package auth

import (
	"context"
	"log/slog"
)

// AllowList holds the set of chat user ids permitted to issue commands.
// An empty list denies everyone, so a misconfigured deployment fails
// closed instead of serving strangers.
type AllowList struct {
	ids map[int64]struct{}
}

// NewAllowList builds an allow list from the configured ids.
func NewAllowList(ids []int64) *AllowList {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &AllowList{ids: set}
}

// Allowed reports whether the user may issue commands. Denials are logged
// so operators can spot both intruders and missing configuration.
func (a *AllowList) Allowed(ctx context.Context, userID int64) bool {
	if len(a.ids) == 0 {
		slog.WarnContext(ctx, "Allow list is empty, denying all users",
			"user_id", userID)
		return false
	}
	if _, ok := a.ids[userID]; !ok {
		slog.WarnContext(ctx, "Rejected command from unauthorized user",
			"user_id", userID)
		return false
	}
	return true
}

// Size returns the number of configured users.
func (a *AllowList) Size() int {
	return len(a.ids)
}
