package resource

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/pkg/errors"

	"github.com/guit-county/guit-portal/internal/store"
)

const argon2idPrefix = "$argon2id$"

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}

	return hash, nil
}

// IsPasswordHash reports whether p is an argon2id hash.
func IsPasswordHash(p string) bool {
	return strings.HasPrefix(p, argon2idPrefix)
}

// VerifyPassword compares password with the stored password of u.
// Stored plaintext passwords of imported accounts are compared in constant time,
// rehash is true when such a password matched and should be replaced by a hash.
func (u *User) VerifyPassword(password string) (match, rehash bool, err error) {
	stored := string(u.Password)

	if !IsPasswordHash(stored) {
		match = stored != "" && subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
		return match, match, nil
	}

	match, err = argon2id.ComparePasswordAndHash(password, stored)
	if err != nil {
		return false, false, errors.Wrap(err, "failed to verify password")
	}

	return match, false, nil
}

// hashUserPassword hashes the password of next when it differs from the stored one.
func hashUserPassword(prev, next Entity) error {
	u := next.(*User)

	if p, ok := prev.(*User); ok && p.Password == u.Password {
		return nil
	}

	if u.Password == "" || IsPasswordHash(string(u.Password)) {
		return nil
	}

	hash, err := HashPassword(string(u.Password))
	if err != nil {
		return err
	}

	u.Password = Text(hash)

	return nil
}

func redactUser(e Entity) {
	e.(*User).Password = ""
}

func userKeys(e Entity) []string {
	u := e.(*User)
	keys := []string{keyEmail(u.Email)}

	if u.Username != "" {
		keys = append(keys, keyUsername(u.Username))
	}

	return keys
}

// FindUser returns the user whose username or email is login.
func FindUser(ctx context.Context, st store.Store, login string) (*User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, store.ErrNotFound
	}

	doc, err := st.FindByKey(ctx, CollectionUsers, keyUsername(Text(login)))
	if errors.Is(err, store.ErrNotFound) {
		doc, err = st.FindByKey(ctx, CollectionUsers, keyEmail(Text(login)))
	}

	if err != nil {
		return nil, err
	}

	e, err := MustLookup(CollectionUsers).Decode(doc)
	if err != nil {
		return nil, err
	}

	return e.(*User), nil
}

// SetPassword stores the hash of password in the user document doc.
// It is meant to run as a store.Mutator.
func SetPassword(doc *store.Document, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	return MustLookup(CollectionUsers).Mutate(doc, func(e Entity) error {
		e.(*User).Password = Text(hash)
		return nil
	})
}
