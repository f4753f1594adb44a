package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	ID           string    `json:"id"`    // UUID пользователя
	Name         string    `json:"name"`  // отображаемое имя
	Email        string    `json:"email"` // уникальный email
	PasswordHash string    `json:"-"`     // bcrypt хеш, наружу не отдается
}

// PublicUser is the outbound view of a user. It never carries the password hash.
type PublicUser struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
}

// Public returns the outbound view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// ProfilePatch holds the optional fields of a profile update.
// A nil field is left untouched.
type ProfilePatch struct {
	Name     *string
	Email    *string
	Password *string
}
