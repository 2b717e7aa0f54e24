package users

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. PasswordHash is empty for Google-only accounts.
type User struct {
	ID           string     `bson:"_id"`
	Name         string     `bson:"name"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"passwordHash,omitempty"`
	GoogleSub    string     `bson:"googleSub,omitempty"`
	PictureURL   string     `bson:"pictureUrl,omitempty"`
	Role         string     `bson:"role"`
	Age          int        `bson:"age,omitempty"`
	Gender       string     `bson:"gender,omitempty"`
	IsActive     bool       `bson:"isActive"`
	LastLogin    *time.Time `bson:"lastLogin,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
}

// Stats counts accounts for the admin dashboard.
type Stats struct {
	TotalUsers  int `json:"totalUsers"`
	ActiveUsers int `json:"activeUsers"`
	AdminUsers  int `json:"adminUsers"`
}
