package models

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents an authenticated customer or admin.
type User struct {
	BaseModel
	Email        string  `gorm:"uniqueIndex" json:"email"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	PasswordHash string  `json:"-"`
	Role         string  `gorm:"size:20;default:'customer'" json:"role"`
	Orders       []Order `json:"orders,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
