package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxPasswordBytes is the most bcrypt will hash.
	MaxPasswordBytes = 72
	// MaxFieldChars matches the VARCHAR(255) user columns.
	MaxFieldChars = 255
)

// usernames end up in URLs and object keys, so they stay plain
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	PasswordHash string    `db:"hashed_password" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserProfile is the public view of a User; it never carries password material.
type UserProfile struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

type RegisterForm struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate returns field -> message for every problem found. An empty map means the form is usable.
func (f *RegisterForm) Validate() map[string]string {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Username = strings.TrimSpace(f.Username)

	problems := map[string]string{}
	if f.FirstName == "" {
		problems["first_name"] = "first name is required"
	}
	if f.Email == "" {
		problems["email"] = "email is required"
	} else if !strings.Contains(f.Email, "@") {
		problems["email"] = "email is not valid"
	}
	switch {
	case f.Username == "":
		problems["username"] = "username is required"
	case !usernamePattern.MatchString(f.Username) || strings.Contains(f.Username, ".."):
		problems["username"] = "username may only contain letters, digits, '.', '_' and '-', and must start with a letter or digit"
	}
	switch {
	case f.Password == "":
		problems["password"] = "password is required"
	case len(f.Password) > MaxPasswordBytes:
		problems["password"] = fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes)
	}
	if f.Password != f.ConfirmPassword {
		problems["confirm_password"] = "Password and Confirm Password are different"
	}

	for field, value := range map[string]string{
		"first_name": f.FirstName,
		"last_name":  f.LastName,
		"email":      f.Email,
		"username":   f.Username,
	} {
		if utf8.RuneCountInString(value) > MaxFieldChars {
			problems[field] = fmt.Sprintf("%s must be at most %d characters", strings.ReplaceAll(field, "_", " "), MaxFieldChars)
		}
	}
	return problems
}

// Normalize trims the username the same way Validate does on registration.
func (f *LoginForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
}

type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenRes struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Username    string    `json:"username"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type VerifyTokenRes struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}
