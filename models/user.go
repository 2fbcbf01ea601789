package models

import "time"

// User is an account row. Password holds the bcrypt hash.
type User struct {
	UserID    string    `json:"userid" bson:"userid"`
	Username  string    `json:"username" bson:"username"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	Role      []string  `json:"role" bson:"role"`
	LastLogin time.Time `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
