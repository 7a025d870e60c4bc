package model

import "github.com/google/uuid"

// User is a member of an organization. Identity is resolved by email
// alone; there is no credential. Role can only be set administratively,
// never through the settings path.
type User struct {
	BaseModel
	Name               string        `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email              string        `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email_org" json:"email" validate:"required,email"`
	Role               Role          `gorm:"type:varchar(20);not null" json:"role" validate:"required,oneof=ADMIN MANAGER STAFF AUDITOR"`
	OrganizationID     uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_users_email_org" json:"organization_id"`
	Organization       *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"organization,omitempty"`
	EmailNotifications bool          `gorm:"default:true" json:"email_notifications"`
}

// Actor is the request-scoped identity passed explicitly into every
// service operation. It is resolved once by the auth middleware and
// never read from a global.
type Actor struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	OrganizationID uuid.UUID `json:"organization_id"`
}

// AsActor converts a stored user into a request actor.
func (u *User) AsActor() Actor {
	return Actor{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
	}
}
