package main

import (
	"fmt"
	"sort"
	"strings"
)

// Replier is the part of an IRC connection commands talk back through.
type Replier interface {
	Privmsg(target, message string)
}

// Request is one command invocation.
type Request struct {
	Prefix  string // nick!ident@host of the caller
	Nick    string
	Target  string // channel, or our nick for private messages
	Private bool
	Verb    string
	Args    []string

	out Replier
}

// Reply answers in the channel the command came from, addressed to the
// caller, or privately.
func (r *Request) Reply(f string, a ...any) {
	msg := fmt.Sprintf(f, a...)
	if r.Private {
		r.out.Privmsg(r.Nick, msg)
		return
	}
	r.out.Privmsg(r.Target, r.Nick+": "+msg)
}

type Handler func(*Bot, *Request)

type route struct {
	h           Handler
	usage       string
	minArgs     int
	privateOnly bool
}

type Router struct {
	routes map[string]route
}

func NewRouter() *Router {
	return &Router{routes: make(map[string]route)}
}

func (r *Router) On(verb, usage string, minArgs int, privateOnly bool, h Handler) {
	r.routes[strings.ToUpper(verb)] = route{h: h, usage: usage, minArgs: minArgs, privateOnly: privateOnly}
}

// Dispatch runs the handler for req.Verb. Unknown verbs report false.
func (r *Router) Dispatch(b *Bot, req *Request) bool {
	rt, ok := r.routes[strings.ToUpper(req.Verb)]
	if !ok {
		return false
	}
	if rt.privateOnly && !req.Private {
		req.Reply("That command only works in a private message.")
		return true
	}
	if len(req.Args) < rt.minArgs {
		req.Reply("Usage: %s", rt.usage)
		return true
	}
	rt.h(b, req)
	return true
}

func (r *Router) Verbs() []string {
	out := make([]string, 0, len(r.routes))
	for v := range r.routes {
		out = append(out, strings.ToLower(v))
	}
	sort.Strings(out)
	return out
}
