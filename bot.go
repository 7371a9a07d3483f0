package main

import (
	"errors"
	"strings"
	"sync"

	"linkbot/accountmap"
	"linkbot/datadir"
	"linkbot/identity"
	"linkbot/logging"
)

type Bot struct {
	Cfg    *Config
	Logger *logging.Logger
	Users  *identity.UserDB

	mu     sync.Mutex // guards links and seen
	links  *accountmap.Map
	seen   *seenMap
	router *Router
}

// NewBot opens the account directory and loads the link map.
func NewBot(cfg *Config, logger *logging.Logger) (*Bot, error) {
	dir, err := datadir.New(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	users, err := identity.OpenUserDB(dir.Dirize(cfg.UsersFile))
	if err != nil {
		return nil, err
	}
	b := &Bot{
		Cfg:    cfg,
		Logger: logger,
		Users:  users,
		links:  accountmap.New(cfg.Namespace, dir.Dirize(cfg.LinksFile), users, logger),
		seen:   newSeenMap(),
		router: NewRouter(),
	}
	registerCommands(b.router)
	return b, nil
}

// Close closes the account directory. Links are not flushed.
func (b *Bot) Close() error {
	return b.Users.Close()
}

func (b *Bot) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.links.Flush()
}

// Lookup reports the key a prefix resolves to and its stored link.
func (b *Bot) Lookup(prefix string) (account string, link string, ok bool, err error) {
	acct, err := b.Users.Lookup(prefix)
	switch {
	case err == nil:
		account = acct.Name
	case errors.Is(err, identity.ErrNoSuchUser):
		account, err = identity.UserHost(prefix)
		if err != nil {
			return "", "", false, err
		}
	default:
		return "", "", false, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	link, ok, err = b.links.Get(prefix)
	return account, link, ok, err
}

// HandleMessage parses a PRIVMSG and dispatches any command in it.
func (b *Bot) HandleMessage(out Replier, prefix, nick, target, text string) {
	b.mu.Lock()
	b.seen.see(nick, prefix)
	b.mu.Unlock()

	text = strings.TrimSpace(text)
	private := !isChannel(target)
	if !private || strings.HasPrefix(text, b.Cfg.CommandPrefix) {
		if !strings.HasPrefix(text, b.Cfg.CommandPrefix) {
			return
		}
		text = strings.TrimSpace(text[len(b.Cfg.CommandPrefix):])
	}
	args := strings.Fields(text)
	if len(args) == 0 {
		return
	}

	req := &Request{
		Prefix:  prefix,
		Nick:    nick,
		Target:  target,
		Private: private,
		Verb:    args[0],
		Args:    args[1:],
		out:     out,
	}
	if !b.router.Dispatch(b, req) && private {
		req.Reply("Unknown command %q. Try: %s", req.Verb, strings.Join(b.router.Verbs(), ", "))
	}
}

func (b *Bot) seeJoin(nick, prefix string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seen.see(nick, prefix)
}

func (b *Bot) seeNick(oldPrefix, oldNick, newNick, prefix string) {
	b.Users.Rebind(oldPrefix, prefix)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seen.rename(oldNick, newNick, prefix)
}

func (b *Bot) seeQuit(nick, prefix string) {
	b.Users.Unidentify(prefix)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seen.forget(nick)
}

func isChannel(target string) bool {
	return strings.HasPrefix(target, "#") || strings.HasPrefix(target, "&")
}
