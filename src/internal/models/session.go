package models

import "time"

// User is the profile record returned by the commerce API on login and
// mirrored into the user_data cookie. Field names follow the remote
// API's wire format; descuentosAplicados is the customer's applied
// discount list and is sometimes omitted by the API entirely.
type User struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	Name             string   `json:"name"`
	Role             string   `json:"role"`
	AppliedDiscounts []string `json:"descuentosAplicados"`
}

// Role constants
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Normalize defaults the applied discount list to an empty list. The
// commerce API omits the field for accounts that never had a discount,
// and downstream consumers index into it without checking.
func (u *User) Normalize() {
	if u.AppliedDiscounts == nil {
		u.AppliedDiscounts = []string{}
	}
}

// IsAdmin checks if user is admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is one authenticated actor: the bearer token plus the
// profile it belongs to. Token and User are set and cleared together.
// SessionID is only present on cached sessions validated from a JWT;
// the commerce API's login response does not carry it.
type Session struct {
	Token     string `json:"token"`
	User      *User  `json:"user"`
	SessionID string `json:"sessionId,omitempty"`
}

// Credentials is the login request body forwarded to the commerce API.
type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ActivityMessage is the session activity event published to RabbitMQ.
type ActivityMessage struct {
	UserID      string    `json:"user_id"`
	SessionID   string    `json:"session_id"`
	ServiceName string    `json:"service_name"`
	Action      string    `json:"action"`
	IPAddress   string    `json:"ip_address,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
