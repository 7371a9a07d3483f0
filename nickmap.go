// nickmap.go
package main

import "strings"

// seenMap remembers the last prefix each nick was seen with, so commands can
// refer to other users by nick.
type seenMap struct {
	byNick map[string]string // lowercase nick -> nick!ident@host
}

func newSeenMap() *seenMap {
	return &seenMap{byNick: make(map[string]string)}
}

// see records prefix for nick.
func (s *seenMap) see(nick, prefix string) {
	if nick == "" || prefix == "" {
		return
	}
	s.byNick[strings.ToLower(nick)] = prefix
}

// rename moves an entry when a user changes nick.
func (s *seenMap) rename(oldNick, newNick, prefix string) {
	delete(s.byNick, strings.ToLower(oldNick))
	s.see(newNick, prefix)
}

// prefix returns the last prefix seen for nick (case-insensitive).
func (s *seenMap) prefix(nick string) (string, bool) {
	p, ok := s.byNick[strings.ToLower(nick)]
	return p, ok
}

func (s *seenMap) forget(nick string) {
	delete(s.byNick, strings.ToLower(nick))
}
