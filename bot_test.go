package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"linkbot/logging"
)

type sentMsg struct{ target, text string }

type fakeConn struct{ sent []sentMsg }

func (c *fakeConn) Privmsg(target, message string) {
	c.sent = append(c.sent, sentMsg{target, message})
}

func (c *fakeConn) last(t *testing.T) sentMsg {
	t.Helper()
	if len(c.sent) == 0 {
		t.Fatal("nothing was sent")
	}
	return c.sent[len(c.sent)-1]
}

func newTestBot(t *testing.T, dir string) (*Bot, *bytes.Buffer) {
	t.Helper()
	cfg := defaultConfig()
	cfg.DataDir = dir
	var logs bytes.Buffer
	b, err := NewBot(cfg, logging.New("debug", &logs))
	if err != nil {
		t.Fatalf("new bot: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b, &logs
}

func TestLinkAndWhoisInChannel(t *testing.T) {
	b, _ := newTestBot(t, t.TempDir())
	c := &fakeConn{}

	b.HandleMessage(c, "alice!a@host1", "alice", "#music", "!link alice_fm")
	if got := c.last(t); got.target != "#music" || got.text != "alice: Linked you to alice_fm." {
		t.Fatalf("unexpected reply %+v", got)
	}

	b.HandleMessage(c, "bob!b@host2", "bob", "#music", "!whois alice")
	if got := c.last(t); got.text != "bob: alice is linked to alice_fm." {
		t.Fatalf("unexpected reply %+v", got)
	}

	b.HandleMessage(c, "bob!b@host2", "bob", "#music", "!whois")
	if got := c.last(t); got.text != "bob: bob hasn't linked an account." {
		t.Fatalf("unexpected reply %+v", got)
	}

	b.HandleMessage(c, "bob!b@host2", "bob", "#music", "!whois carol")
	if got := c.last(t); got.text != "bob: I haven't seen carol." {
		t.Fatalf("unexpected reply %+v", got)
	}
}

func TestChannelChatterIsIgnored(t *testing.T) {
	b, _ := newTestBot(t, t.TempDir())
	c := &fakeConn{}

	b.HandleMessage(c, "alice!a@host1", "alice", "#music", "link alice_fm")
	b.HandleMessage(c, "alice!a@host1", "alice", "#music", "!nosuchcommand")
	if len(c.sent) != 0 {
		t.Fatalf("expected no replies, got %+v", c.sent)
	}
}

func TestPrivateCommandsAndUsage(t *testing.T) {
	b, _ := newTestBot(t, t.TempDir())
	c := &fakeConn{}

	b.HandleMessage(c, "alice!a@host1", "alice", "linkbot", "link")
	if got := c.last(t); got.target != "alice" || got.text != "Usage: link <account id>" {
		t.Fatalf("unexpected reply %+v", got)
	}

	b.HandleMessage(c, "alice!a@host1", "alice", "#music", "!register alice pw")
	if got := c.last(t); got.text != "alice: That command only works in a private message." {
		t.Fatalf("unexpected reply %+v", got)
	}

	b.HandleMessage(c, "alice!a@host1", "alice", "linkbot", "frobnicate")
	if got := c.last(t); !strings.HasPrefix(got.text, `Unknown command "frobnicate"`) {
		t.Fatalf("unexpected reply %+v", got)
	}
}

func TestRegisteredAccountSharesLinkAcrossHosts(t *testing.T) {
	b, _ := newTestBot(t, t.TempDir())
	c := &fakeConn{}

	b.HandleMessage(c, "alice!a@host1", "alice", "linkbot", "register alice s3cret")
	if got := c.last(t); got.text != "Registered alice. You are recognised from *!a@host1." {
		t.Fatalf("unexpected reply %+v", got)
	}
	b.HandleMessage(c, "alice!a@host1", "alice", "linkbot", "link extid1")

	// From a new host alice is unknown until she identifies.
	b.HandleMessage(c, "alice!a@host2", "alice", "linkbot", "whois")
	if got := c.last(t); got.text != "alice hasn't linked an account." {
		t.Fatalf("unexpected reply %+v", got)
	}

	b.HandleMessage(c, "alice!a@host2", "alice", "linkbot", "identify alice wrong")
	if got := c.last(t); got.text != "Invalid account or password." {
		t.Fatalf("unexpected reply %+v", got)
	}
	b.HandleMessage(c, "alice!a@host2", "alice", "linkbot", "identify alice s3cret")
	b.HandleMessage(c, "alice!a@host2", "alice", "linkbot", "link extid2")

	b.HandleMessage(c, "alice!a@host1", "alice", "linkbot", "whois")
	if got := c.last(t); got.text != "alice is linked to extid2." {
		t.Fatalf("unexpected reply %+v", got)
	}

	b.HandleMessage(c, "alice!a@host1", "alice", "linkbot", "stats")
	if got := c.last(t); got.text != "1 linked users in Links." {
		t.Fatalf("unexpected reply %+v", got)
	}
}

func TestNickChangeKeepsIdentification(t *testing.T) {
	b, _ := newTestBot(t, t.TempDir())
	c := &fakeConn{}

	b.HandleMessage(c, "dave!d@h", "dave", "linkbot", "register dave pw")
	b.HandleMessage(c, "dave!d@roam", "dave", "linkbot", "identify dave pw")
	b.HandleMessage(c, "dave!d@roam", "dave", "linkbot", "link dave_fm")

	b.seeNick("dave!d@roam", "dave", "dave_", "dave_!d@roam")
	b.HandleMessage(c, "eve!e@h", "eve", "#music", "!whois dave_")
	if got := c.last(t); got.text != "eve: dave_ is linked to dave_fm." {
		t.Fatalf("unexpected reply %+v", got)
	}

	b.seeQuit("dave_", "dave_!d@roam")
	b.HandleMessage(c, "eve!e@h", "eve", "#music", "!whois dave_")
	if got := c.last(t); got.text != "eve: I haven't seen dave_." {
		t.Fatalf("unexpected reply %+v", got)
	}
}

func TestFlushPersistsLinks(t *testing.T) {
	dir := t.TempDir()
	b, _ := newTestBot(t, dir)
	c := &fakeConn{}

	for i := 0; i < 3; i++ {
		nick := fmt.Sprintf("user%d", i)
		b.HandleMessage(c, nick+"!"+nick+"@host", nick, "linkbot", "link ext"+nick)
	}
	b.Flush()
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "links.json")); err != nil {
		t.Fatalf("links file: %v", err)
	}

	again, _ := newTestBot(t, dir)
	key, link, ok, err := again.Lookup("user1!user1@host")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if key != "user1@host" || !ok || link != "extuser1" {
		t.Fatalf("got %q %q %v", key, link, ok)
	}
}
