package models

// Role identifies which kind of member performed a request.
type Role string

const (
	RoleUser Role = "USER"
	RolePB   Role = "PB"
)

// Valid reports whether r is one of the known member roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RolePB
}

// Member is the identity shared by User and PB accounts.
type Member interface {
	MemberID() uint
	MemberRole() Role
}

// Authored is implemented by content that records who wrote it.
type Authored interface {
	Author() (id uint, role Role)
}

// Principal is the member resolved from a request token.
type Principal struct {
	ID    uint
	Role  Role
	Admin bool
}

func (p Principal) MemberID() uint   { return p.ID }
func (p Principal) MemberRole() Role { return p.Role }

// IsAuthor reports whether m wrote a. Both id and role must match since
// users and PBs live in separate id spaces.
func IsAuthor(m Member, a Authored) bool {
	if m == nil || a == nil {
		return false
	}
	id, role := a.Author()
	return m.MemberID() == id && m.MemberRole() == role
}
