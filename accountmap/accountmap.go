// Package accountmap remembers which external-service account each IRC user
// has linked. Users are keyed by their bot account when they have one, and
// by ident@host otherwise.
//
// A Map is not safe for concurrent use.
package accountmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"linkbot/identity"
)

type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type Map struct {
	namespace string
	path      string
	dir       identity.Directory
	log       Logger
	entries   map[string]string
}

// New loads the map stored at path. A missing, unreadable or corrupt file
// is logged at debug level and leaves the map empty.
func New(namespace, path string, dir identity.Directory, log Logger) *Map {
	m := &Map{
		namespace: namespace,
		path:      path,
		dir:       dir,
		log:       log,
		entries:   make(map[string]string),
	}
	if err := m.load(); err != nil {
		m.log.Debugf("%s: unable to load database, creating a new one: %v", m.namespace, err)
	}
	return m
}

func (m *Map) load() error {
	b, err := os.ReadFile(m.path)
	if err != nil {
		return err
	}
	var entries map[string]string
	if err := json.Unmarshal(b, &entries); err != nil {
		return err
	}
	if entries != nil {
		m.entries = entries
	}
	return nil
}

// Flush replaces the backing file with the current entries. Failures are
// logged and otherwise ignored.
func (m *Map) Flush() {
	if err := m.save(); err != nil {
		m.log.Warnf("%s: unable to write database: %v", m.namespace, err)
	}
}

func (m *Map) save() error {
	b, err := json.MarshalIndent(m.entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, m.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// resolveKey maps prefix to the owning account name, or to ident@host when
// the directory knows no such user.
func (m *Map) resolveKey(prefix string) (string, error) {
	acct, err := m.dir.Lookup(prefix)
	if err == nil {
		return acct.Name, nil
	}
	if !errors.Is(err, identity.ErrNoSuchUser) {
		return "", fmt.Errorf("looking up %s: %w", prefix, err)
	}
	uh, err := identity.UserHost(prefix)
	if err != nil {
		return "", fmt.Errorf("%q: %w", prefix, err)
	}
	return uh, nil
}

// Set stores value for the user behind prefix. It only touches memory.
func (m *Map) Set(prefix, value string) error {
	key, err := m.resolveKey(prefix)
	if err != nil {
		return err
	}
	m.entries[key] = value
	return nil
}

// Get returns the value stored for the user behind prefix. ok is false when
// nothing has been stored.
func (m *Map) Get(prefix string) (value string, ok bool, err error) {
	key, err := m.resolveKey(prefix)
	if err != nil {
		return "", false, err
	}
	value, ok = m.entries[key]
	return value, ok, nil
}

func (m *Map) Len() int { return len(m.entries) }

func (m *Map) Namespace() string { return m.namespace }
