package models

// Role is the permission tier of a user. The set is closed: anything
// outside these three constants is rejected at validation time.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role, in ascending order of privilege.
func Roles() []Role {
	return []Role{RoleUser, RoleModerator, RoleAdmin}
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) IsModerator() bool {
	return r == RoleModerator
}

// CanModerate reports whether the role may edit or delete content
// authored by other users.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
