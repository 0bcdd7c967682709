package model

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const RoleServerAdmin = "_admin"

var (
	adminHash          = sha256.New
	adminKeyLen        = 32
	adminHashIteration = 4096
)

// AdminUser is a server admin. Only the derived key of the password
// is kept in memory.
type AdminUser struct {
	Username   string
	Salt       string
	DerivedKey string
	Iterations int
}

func NewAdminUser(username, password string) (*AdminUser, error) {
	var salt [16]byte
	_, err := rand.Read(salt[:])
	if err != nil {
		return nil, err
	}
	u := &AdminUser{
		Username:   username,
		Salt:       hex.EncodeToString(salt[:]),
		Iterations: adminHashIteration,
	}
	dk := pbkdf2.Key([]byte(password), []byte(u.Salt), u.Iterations, adminKeyLen, adminHash)
	u.DerivedKey = hex.EncodeToString(dk)
	return u, nil
}

func (u AdminUser) String() string {
	return "<AdminUser Username=" + u.Username + ">"
}

func (u AdminUser) VerifyPassword(password string) bool {
	key, err := hex.DecodeString(u.DerivedKey)
	if err != nil {
		return false
	}
	dk := pbkdf2.Key([]byte(password), []byte(u.Salt), u.Iterations, adminKeyLen, adminHash)
	return subtle.ConstantTimeCompare(key, dk) == 1
}

func (u AdminUser) Session() *Session {
	return &Session{
		Name:  u.Username,
		Roles: []string{RoleServerAdmin},
	}
}

type AdminUsers []*AdminUser

func (a AdminUsers) Authenticate(username, password string) *AdminUser {
	for _, user := range a {
		if user.Username == username && user.VerifyPassword(password) {
			return user
		}
	}
	return nil
}

// ParseAdmins parses "user:password,user2:password2". An empty string
// yields no admins, which leaves the server open.
func ParseAdmins(admins string) (AdminUsers, error) {
	if strings.TrimSpace(admins) == "" {
		return nil, nil
	}

	userParts := strings.Split(admins, ",")
	users := make(AdminUsers, len(userParts))

	for i, userPart := range userParts {
		userPass := strings.Split(userPart, ":")
		if len(userPass) <= 1 || userPass[0] == "" {
			return nil, fmt.Errorf("invalid admins string part %d", i+1)
		}
		u, err := NewAdminUser(userPass[0], strings.Join(userPass[1:], ":"))
		if err != nil {
			return nil, err
		}
		users[i] = u
	}

	return users, nil
}
