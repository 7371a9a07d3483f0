package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/buntdb"
	"golang.org/x/crypto/bcrypt"
)

const keyAccountInfo = "account.info %s"

// UserDB is a Directory stored in a buntdb file.
type UserDB struct {
	db   *buntdb.DB
	cost int

	mu       sync.RWMutex
	sessions map[string]string // lowercased prefix -> lowercased account name
}

func OpenUserDB(path string) (*UserDB, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open user db: %w", err)
	}
	return &UserDB{
		db:       db,
		cost:     bcrypt.DefaultCost,
		sessions: make(map[string]string),
	}, nil
}

func (u *UserDB) Close() error { return u.db.Close() }

func loadAccount(tx *buntdb.Tx, lname string) (Account, error) {
	raw, err := tx.Get(fmt.Sprintf(keyAccountInfo, lname))
	if errors.Is(err, buntdb.ErrNotFound) {
		return Account{}, ErrNoSuchUser
	}
	if err != nil {
		return Account{}, err
	}
	var acct Account
	if err := json.Unmarshal([]byte(raw), &acct); err != nil {
		return Account{}, fmt.Errorf("decoding account %s: %w", lname, err)
	}
	return acct, nil
}

func saveAccount(tx *buntdb.Tx, acct Account) error {
	b, err := json.Marshal(acct)
	if err != nil {
		return err
	}
	_, _, err = tx.Set(fmt.Sprintf(keyAccountInfo, strings.ToLower(acct.Name)), string(b), nil)
	return err
}

// Register creates an account recognised by hostmask. An empty hostmask
// registers an account reachable only through Identify.
func (u *UserDB) Register(name, password, hostmask string) error {
	if name == "" || password == "" {
		return ErrEmptyCredentials
	}
	if strings.ContainsAny(name, " *?!@") {
		return ErrInvalidName
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return err
	}
	acct := Account{Name: name, Hash: hash, CreatedTS: time.Now().Unix()}
	if hostmask != "" {
		acct.Hostmasks = []string{hostmask}
	}
	return u.db.Update(func(tx *buntdb.Tx) error {
		_, err := loadAccount(tx, strings.ToLower(name))
		switch {
		case err == nil:
			return ErrAccountExists
		case !errors.Is(err, ErrNoSuchUser):
			return err
		}
		return saveAccount(tx, acct)
	})
}

func (u *UserDB) AddHostmask(name, mask string) error {
	return u.db.Update(func(tx *buntdb.Tx) error {
		acct, err := loadAccount(tx, strings.ToLower(name))
		if err != nil {
			return err
		}
		for _, m := range acct.Hostmasks {
			if strings.EqualFold(m, mask) {
				return nil
			}
		}
		acct.Hostmasks = append(acct.Hostmasks, mask)
		return saveAccount(tx, acct)
	})
}

func (u *UserDB) Account(name string) (Account, error) {
	var acct Account
	err := u.db.View(func(tx *buntdb.Tx) error {
		var err error
		acct, err = loadAccount(tx, strings.ToLower(name))
		return err
	})
	return acct, err
}

// Accounts returns every account ordered by lowercased name.
func (u *UserDB) Accounts() ([]Account, error) {
	var out []Account
	err := u.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.AscendKeys(fmt.Sprintf(keyAccountInfo, "*"), func(key, value string) bool {
			var acct Account
			if decodeErr = json.Unmarshal([]byte(value), &acct); decodeErr != nil {
				decodeErr = fmt.Errorf("decoding %s: %w", key, decodeErr)
				return false
			}
			out = append(out, acct)
			return true
		})
		if err != nil {
			return err
		}
		return decodeErr
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (u *UserDB) Verify(name, password string) bool {
	acct, err := u.Account(name)
	if err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword(acct.Hash, []byte(password)) == nil
}

// Identify binds prefix to the named account until Unidentify or process exit.
func (u *UserDB) Identify(prefix, name, password string) error {
	acct, err := u.Account(name)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(acct.Hash, []byte(password)) != nil {
		return ErrBadPassword
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.sessions[strings.ToLower(prefix)] = strings.ToLower(acct.Name)
	return nil
}

func (u *UserDB) Unidentify(prefix string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.sessions, strings.ToLower(prefix))
}

// Lookup checks identified sessions first, then hostmasks in account order.
func (u *UserDB) Lookup(prefix string) (Account, error) {
	u.mu.RLock()
	bound, ok := u.sessions[strings.ToLower(prefix)]
	u.mu.RUnlock()
	if ok {
		acct, err := u.Account(bound)
		if !errors.Is(err, ErrNoSuchUser) {
			return acct, err
		}
	}

	accts, err := u.Accounts()
	if err != nil {
		return Account{}, err
	}
	for _, acct := range accts {
		for _, mask := range acct.Hostmasks {
			if MatchMask(mask, prefix) {
				return acct, nil
			}
		}
	}
	return Account{}, ErrNoSuchUser
}

// Rebind moves an identified session to a new prefix, as after a nick change.
func (u *UserDB) Rebind(oldPrefix, newPrefix string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	name, ok := u.sessions[strings.ToLower(oldPrefix)]
	if !ok {
		return
	}
	delete(u.sessions, strings.ToLower(oldPrefix))
	u.sessions[strings.ToLower(newPrefix)] = name
}
