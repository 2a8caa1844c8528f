package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/document"
	"golang.org/x/crypto/bcrypt"
)

// UserFields are the keys a strict user must carry.
var UserFields = []string{"nickname", "password", "email", "activation_phrase", "activation_till"}

// PasswordCost is the bcrypt cost used for new password hashes.
var PasswordCost = bcrypt.DefaultCost

// User is a validated user document. The password is hashed on construction.
type User struct {
	doc document.Doc
}

// NewUser validates data and hashes the plain text password it carries.
func NewUser(data document.Doc, strict bool) (*User, error) {
	if strict {
		for _, k := range UserFields {
			if _, ok := data[k]; !ok {
				return nil, apperr.MissingField(k)
			}
		}
	}
	doc := document.Doc{}
	for _, k := range document.SortedKeys(data) {
		v := data[k]
		var err error
		switch k {
		case "nickname":
			var nick string
			if nick, err = String(k, v); err == nil {
				err = ValidateUserName(nick)
				doc[k] = nick
			}
		case "password":
			var pw string
			if pw, err = String(k, v); err == nil {
				doc[k], err = HashPassword(pw)
			}
		case "email", "activation_phrase", "activation_till":
			doc[k], err = String(k, v)
		case "groups":
			doc[k], err = StringList(k, v)
		default:
			err = apperr.BadValue(k)
		}
		if err != nil {
			return nil, err
		}
	}
	if _, ok := doc["groups"]; !ok {
		doc["groups"] = []any{}
	}
	doc["logged_in"] = false
	return &User{doc: doc}, nil
}

// Nickname returns the user's nickname.
func (u *User) Nickname() string { return document.String(u.doc, "nickname") }

// Doc returns the store-ready document.
func (u *User) Doc() document.Doc { return document.CloneDoc(u.doc) }

// HashPassword returns the bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), PasswordCost)
	if err != nil {
		return "", apperr.WrongType("password", "string of at most 72 bytes")
	}
	return string(h), nil
}

// CheckPassword reports whether pw matches the stored hash.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Activation returns a fresh activation phrase of the given length and its
// expiry time formatted like the other timestamps.
func Activation(length int, ttl time.Duration, now time.Time) (phrase, till string) {
	var b strings.Builder
	for b.Len() < length {
		b.WriteString(strings.ReplaceAll(uuid.NewString(), "-", ""))
	}
	return b.String()[:length], FormatTime(now.Add(ttl))
}

// PublicUser strips the secrets and the store id from a stored user.
func PublicUser(d document.Doc) document.Doc {
	out := document.CloneDoc(d)
	delete(out, "_id")
	delete(out, "password")
	delete(out, "activation_phrase")
	return out
}

// PublicPackage strips the store id from a stored package.
func PublicPackage(d document.Doc) document.Doc {
	out := document.CloneDoc(d)
	delete(out, "_id")
	return out
}
