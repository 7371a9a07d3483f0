// Package identity is the bot's account directory: registered accounts,
// the hostmasks they are recognised by, and identified sessions.
package identity

import "errors"

var (
	ErrNoSuchUser       = errors.New("no such user")
	ErrAccountExists    = errors.New("account already exists")
	ErrEmptyCredentials = errors.New("empty account or password")
	ErrInvalidName      = errors.New("account names may not contain spaces, wildcards, '!' or '@'")
	ErrBadPassword      = errors.New("invalid password")
)

type Account struct {
	Name      string   `json:"name"`
	Hash      []byte   `json:"hash"`
	Hostmasks []string `json:"hostmasks"`
	CreatedTS int64    `json:"created_ts"`
}

// Directory finds the account a connection prefix belongs to.
// Lookup returns ErrNoSuchUser when nothing matches; any other error means
// the directory itself failed.
type Directory interface {
	Lookup(prefix string) (Account, error)
}
