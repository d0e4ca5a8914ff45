package auth

import "errors"

var ErrUnauthenticated = errors.New("must be logged in")

// Identity is a verified caller. Subject is the canonical user id; ExternalID
// is the alias issued by the previous auth provider and still recorded on
// rows written before the migration.
type Identity struct {
	Subject    string
	ExternalID string
	Name       string
	Email      string
}

// Owns reports whether the identity matches a recorded owner id under either
// alias. All ownership checks go through here so the alias comparison lives
// in exactly one place.
func (i *Identity) Owns(ownerID string) bool {
	if i == nil || ownerID == "" {
		return false
	}
	if ownerID == i.Subject {
		return true
	}
	return i.ExternalID != "" && ownerID == i.ExternalID
}

// Require returns the identity or ErrUnauthenticated. It is the precondition
// check at the top of every mutator that writes shared state.
func Require(ident *Identity) (*Identity, error) {
	if ident == nil {
		return nil, ErrUnauthenticated
	}
	return ident, nil
}
