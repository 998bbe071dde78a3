package auth

import (
	"strings"

	"postauth/internal/model"
)

// NormalizeRoles trims names, drops empties and collapses duplicates while
// keeping first-seen order. Case is preserved; membership is case-sensitive.
func NormalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	seen := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// HasAnyRole reports whether held intersects required. An empty required
// set is satisfied by any holder.
func HasAnyRole(held []string, required ...string) bool {
	if len(required) == 0 {
		return true
	}
	for _, h := range held {
		for _, r := range required {
			if h == r {
				return true
			}
		}
	}
	return false
}

// CanModifyOwned reports whether an actor may mutate a resource owned by ownerID.
func CanModifyOwned(actorID uint, actorRoles []string, ownerID uint) bool {
	return actorID == ownerID || HasAnyRole(actorRoles, model.RoleAdmin)
}
