package main

import (
	"errors"

	"linkbot/identity"
)

func registerCommands(r *Router) {
	r.On("LINK", "link <account id>", 1, false, cmdLink)
	r.On("WHOIS", "whois [nick]", 0, false, cmdWhois)
	r.On("REGISTER", "register <account> <password>", 2, true, cmdRegister)
	r.On("IDENTIFY", "identify <account> <password>", 2, true, cmdIdentify)
	r.On("UNIDENTIFY", "unidentify", 0, false, cmdUnidentify)
	r.On("STATS", "stats", 0, false, cmdStats)
}

func cmdLink(b *Bot, req *Request) {
	id := req.Args[0]
	b.mu.Lock()
	err := b.links.Set(req.Prefix, id)
	b.mu.Unlock()
	if err != nil {
		b.Logger.Errorf("link %s: %v", req.Prefix, err)
		req.Reply("Sorry, I couldn't work out who you are right now.")
		return
	}
	req.Reply("Linked you to %s.", id)
}

func cmdWhois(b *Bot, req *Request) {
	nick, prefix := req.Nick, req.Prefix
	if len(req.Args) > 0 {
		nick = req.Args[0]
		b.mu.Lock()
		p, ok := b.seen.prefix(nick)
		b.mu.Unlock()
		if !ok {
			req.Reply("I haven't seen %s.", nick)
			return
		}
		prefix = p
	}

	b.mu.Lock()
	id, ok, err := b.links.Get(prefix)
	b.mu.Unlock()
	switch {
	case err != nil:
		b.Logger.Errorf("whois %s: %v", prefix, err)
		req.Reply("Sorry, I couldn't look up %s right now.", nick)
	case !ok:
		req.Reply("%s hasn't linked an account.", nick)
	default:
		req.Reply("%s is linked to %s.", nick, id)
	}
}

func cmdRegister(b *Bot, req *Request) {
	mask, err := identity.BanMask(req.Prefix)
	if err != nil {
		req.Reply("I can't register you from %s.", req.Prefix)
		return
	}
	name, pass := req.Args[0], req.Args[1]
	switch err := b.Users.Register(name, pass, mask); {
	case errors.Is(err, identity.ErrAccountExists):
		req.Reply("Account %s already exists.", name)
	case errors.Is(err, identity.ErrInvalidName), errors.Is(err, identity.ErrEmptyCredentials):
		req.Reply("Registration failed: %v.", err)
	case err != nil:
		b.Logger.Errorf("register %s: %v", name, err)
		req.Reply("Registration failed.")
	default:
		b.Logger.Infof("registered account %s for %s", name, mask)
		req.Reply("Registered %s. You are recognised from %s.", name, mask)
	}
}

func cmdIdentify(b *Bot, req *Request) {
	name, pass := req.Args[0], req.Args[1]
	switch err := b.Users.Identify(req.Prefix, name, pass); {
	case errors.Is(err, identity.ErrNoSuchUser), errors.Is(err, identity.ErrBadPassword):
		req.Reply("Invalid account or password.")
	case err != nil:
		b.Logger.Errorf("identify %s: %v", name, err)
		req.Reply("Identification failed.")
	default:
		req.Reply("You are now identified as %s.", name)
	}
}

func cmdUnidentify(b *Bot, req *Request) {
	b.Users.Unidentify(req.Prefix)
	req.Reply("You are no longer identified.")
}

func cmdStats(b *Bot, req *Request) {
	b.mu.Lock()
	n := b.links.Len()
	b.mu.Unlock()
	req.Reply("%d linked users in %s.", n, b.links.Namespace())
}
