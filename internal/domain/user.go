package domain

import "time"

// User описывает покупателя магазина.
// PasswordHash хранит только bcrypt-хэш, исходный пароль никогда не сохраняется.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsActive     bool
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func NewUser(email, passwordHash string) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
}
