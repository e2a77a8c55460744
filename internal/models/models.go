package models

import (
	"errors"
	"net/mail"
	"strings"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole accepts the wire form of a role, case-insensitive.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(s) {
	case "admin":
		return RoleAdmin, true
	case "user":
		return RoleUser, true
	}
	return "", false
}

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	RefreshToken string `json:"-"`
}

type Character struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
}

const (
	minPasswordLen = 6
	minNameLen     = 4
)

var (
	ErrInvalidEmail     = errors.New("email must be a valid address")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrNameTooShort     = errors.New("name must be at least 4 characters")
	ErrLastNameTooShort = errors.New("lastName must be at least 4 characters")
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return ErrInvalidEmail
	}
	if len(c.Password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

type CharacterInput struct {
	Name     string `json:"name"`
	LastName string `json:"lastName"`
}

func (i CharacterInput) Validate() error {
	if len(i.Name) < minNameLen {
		return ErrNameTooShort
	}
	if len(i.LastName) < minNameLen {
		return ErrLastNameTooShort
	}
	return nil
}
