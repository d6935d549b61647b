package users

import "time"

// User is the client-side model for a hub user
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Department string    `json:"department"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"isActive"`
	LastLogin  time.Time `json:"lastLogin"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DisplayName returns the user's full name
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// userWire is the backend's shape of a user. Older endpoints still emit
// snake_case fields; normalizeUser resolves the variants exactly once.
type userWire struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	FirstNameSnake string `json:"first_name"`
	LastName       string `json:"lastName"`
	LastNameSnake  string `json:"last_name"`
	Department     string `json:"department"`
	Role           string `json:"role"`
	IsActive       *bool  `json:"isActive"`
	IsActiveSnake  *bool  `json:"is_active"`
	LastLogin      string `json:"lastLogin"`
	LastLoginSnake string `json:"last_login"`
	CreatedAt      string `json:"createdAt"`
	CreatedAtSnake string `json:"created_at"`
}

// normalizeUser converts the wire shape into the internal model
func normalizeUser(wire userWire) User {
	user := User{
		ID:         wire.ID,
		Email:      wire.Email,
		FirstName:  firstNonEmpty(wire.FirstName, wire.FirstNameSnake),
		LastName:   firstNonEmpty(wire.LastName, wire.LastNameSnake),
		Department: wire.Department,
		Role:       wire.Role,
		IsActive:   true,
	}

	if wire.IsActive != nil {
		user.IsActive = *wire.IsActive
	} else if wire.IsActiveSnake != nil {
		user.IsActive = *wire.IsActiveSnake
	}

	user.LastLogin = parseWireTime(firstNonEmpty(wire.LastLogin, wire.LastLoginSnake))
	user.CreatedAt = parseWireTime(firstNonEmpty(wire.CreatedAt, wire.CreatedAtSnake))

	return user
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func parseWireTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed
		}
	}
	return time.Time{}
}
