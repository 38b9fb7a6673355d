package utils

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash relies on bcrypt's constant-time comparison of the derived keys.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckPasswordNoUser does the same bcrypt work as CheckPasswordHash for a username
// that does not exist, so both login failures take as long. It always reports false.
func CheckPasswordNoUser(password string) bool {
	dummyHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("no-such-user-placeholder"), bcrypt.DefaultCost)
		if err != nil {
			panic("utils: cannot build placeholder password hash: " + err.Error())
		}
		dummyHash = hash
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return false
}
