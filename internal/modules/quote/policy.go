package quote

import "homeclean/internal/domain"

// Access policy for quotes. Pure decision functions: callers pass the
// identity (nil for anonymous) and the presented draft key explicitly.
// Authentication alone never implies edit rights; only clientId match or
// key possession does.

// IsStaff reports whether the caller holds a staff role.
func IsStaff(caller *domain.Identity) bool {
	if caller == nil {
		return false
	}
	return caller.Role == domain.RoleOwner || caller.Role == domain.RoleEmployee
}

// CanEditDraft allows patching while the quote is a draft, either by
// presenting the matching draft key or by owning the quote.
func CanEditDraft(caller *domain.Identity, draftKey string, q *domain.Quote) bool {
	if !q.IsDraft() {
		return false
	}
	if draftKeyMatches(q, draftKey) {
		return true
	}
	return caller != nil && q.OwnedBy(caller.UserID)
}

// CanClaim allows an authenticated caller holding the matching key to take
// ownership of a draft.
func CanClaim(caller *domain.Identity, draftKey string, q *domain.Quote) bool {
	return caller != nil && q.IsDraft() && draftKeyMatches(q, draftKey)
}

// CanSubmit allows the owner to submit a draft. An unclaimed draft may be
// submitted too; submission assigns it to the caller.
func CanSubmit(caller *domain.Identity, q *domain.Quote) bool {
	if caller == nil || !q.IsDraft() {
		return false
	}
	return q.ClientID == nil || q.OwnedBy(caller.UserID)
}

// CanView allows the owner and any staff member to read the quote.
func CanView(caller *domain.Identity, q *domain.Quote) bool {
	if caller == nil {
		return false
	}
	return q.OwnedBy(caller.UserID) || IsStaff(caller)
}

func draftKeyMatches(q *domain.Quote, presented string) bool {
	return presented != "" && q.DraftKey != nil && presented == *q.DraftKey
}
