// Package guard holds the ownership policy for short-link records. The
// decisions are pure functions of the resolved actor and the record; the
// public redirect is the one operation that bypasses this package.
package guard

import "tinyapp/internal/models"

// CanView reports whether the actor may read an owned record. Anonymous
// actors never may; authenticated actors only for records they own. There
// is no admin bypass.
func CanView(actor models.Actor, link models.Link) bool {
	return actor.Authenticated && actor.UserID == link.OwnerID
}

// CanMutate reports whether the actor may update or delete the record.
// The policy is identical to CanView.
func CanMutate(actor models.Actor, link models.Link) bool {
	return CanView(actor, link)
}

// Check resolves the access outcome for a protected link operation. The
// chain is fixed, first match wins: unknown code, then missing session,
// then wrong owner. A nil return means the operation is allowed.
func Check(actor models.Actor, link models.Link, found bool) error {
	switch {
	case !found:
		return models.ErrNotFound
	case !actor.Authenticated:
		return models.ErrUnauthenticated
	case !CanMutate(actor, link):
		return models.ErrForbidden
	}

	return nil
}
