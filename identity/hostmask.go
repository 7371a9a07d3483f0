package identity

import (
	"errors"
	"strings"

	"github.com/tidwall/match"
)

var ErrMalformedPrefix = errors.New("malformed prefix")

// SplitPrefix breaks "nick!ident@host" into its parts.
func SplitPrefix(prefix string) (nick, ident, host string, err error) {
	bang := strings.IndexByte(prefix, '!')
	if bang <= 0 {
		return "", "", "", ErrMalformedPrefix
	}
	nick = prefix[:bang]
	rest := prefix[bang+1:]
	at := strings.IndexByte(rest, '@')
	if at < 0 {
		return "", "", "", ErrMalformedPrefix
	}
	return nick, rest[:at], rest[at+1:], nil
}

// UserHost returns everything after the first '!' of prefix.
func UserHost(prefix string) (string, error) {
	_, uh, ok := strings.Cut(prefix, "!")
	if !ok {
		return "", ErrMalformedPrefix
	}
	return uh, nil
}

// MatchMask reports whether prefix matches the glob hostmask (* and ?),
// ignoring case.
func MatchMask(mask, prefix string) bool {
	return match.Match(strings.ToLower(prefix), strings.ToLower(mask))
}

// BanMask builds the *!ident@host mask registered for a fresh account.
func BanMask(prefix string) (string, error) {
	uh, err := UserHost(prefix)
	if err != nil {
		return "", err
	}
	return "*!" + uh, nil
}
