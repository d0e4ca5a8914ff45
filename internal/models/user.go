package models

// User is a registered account. ExternalID carries the id issued by the
// external auth provider before accounts were migrated to local subjects.
type User struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Email      string `db:"email" json:"email"`
	ExternalID string `db:"external_id" json:"externalID"`
}

// UserUpdate carries a partial user update; nil fields are left untouched.
type UserUpdate struct {
	ID         string  `json:"id"`
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	ExternalID *string `json:"externalID,omitempty"`
}
