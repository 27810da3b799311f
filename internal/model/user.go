package model

type User struct {
	ID      string
	Name    string
	IsAdmin bool
}

var (
	AdminUser    = User{ID: "user1", Name: "Admin user", IsAdmin: true}
	NonAdminUser = User{ID: "user2", Name: "Non admin user", IsAdmin: false}
)

// DefaultUsers returns the fixed roster. The first entry is the default current user.
func DefaultUsers() []User {
	return []User{AdminUser, NonAdminUser}
}
