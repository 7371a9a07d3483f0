package main

import (
	"context"
	"crypto/tls"
	"net"
	"strings"
	"time"

	irc "github.com/thoj/go-ircevent"
)

// ConnectAndRun connects to the configured server and serves commands until
// ctx is done. Links are flushed every FlushInterval and once more on exit.
func (b *Bot) ConnectAndRun(ctx context.Context) error {
	conn := irc.IRC(b.Cfg.Nick, b.Cfg.User)
	conn.RealName = b.Cfg.RealName
	conn.Password = b.Cfg.Server.Password
	conn.UseTLS = b.Cfg.Server.TLS
	if conn.UseTLS {
		host, _, err := net.SplitHostPort(b.Cfg.Server.Addr)
		if err != nil {
			host = b.Cfg.Server.Addr
		}
		conn.TLSConfig = &tls.Config{ServerName: host}
	}
	conn.Log = b.Logger.Std()

	conn.AddCallback("001", func(e *irc.Event) {
		b.Logger.Infof("registered with %s as %s", b.Cfg.Server.Addr, conn.GetNick())
		for _, ch := range b.Cfg.Channels {
			conn.Join(ch)
		}
	})
	conn.AddCallback("PRIVMSG", func(e *irc.Event) {
		if len(e.Arguments) == 0 || !strings.Contains(e.Source, "!") {
			return
		}
		b.HandleMessage(conn, e.Source, e.Nick, e.Arguments[0], e.Message())
	})
	conn.AddCallback("JOIN", func(e *irc.Event) {
		b.seeJoin(e.Nick, e.Source)
	})
	conn.AddCallback("NICK", func(e *irc.Event) {
		newNick := e.Message()
		b.seeNick(e.Source, e.Nick, newNick, newNick+"!"+e.User+"@"+e.Host)
	})
	conn.AddCallback("QUIT", func(e *irc.Event) {
		b.seeQuit(e.Nick, e.Source)
	})

	if err := conn.Connect(b.Cfg.Server.Addr); err != nil {
		return err
	}
	b.Logger.Infof("connected to %s", b.Cfg.Server.Addr)

	done := make(chan struct{})
	go b.flushLoop(ctx, done)
	go func() {
		select {
		case <-ctx.Done():
			b.Logger.Infof("shutting down")
			conn.Quit()
		case <-done:
		}
	}()

	conn.Loop()
	close(done)
	b.Flush()
	return nil
}

func (b *Bot) flushLoop(ctx context.Context, done <-chan struct{}) {
	if b.Cfg.FlushInterval == 0 {
		return
	}
	t := time.NewTicker(b.Cfg.FlushInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-t.C:
			b.Logger.Debugf("flushing %s", b.Cfg.Namespace)
			b.Flush()
		}
	}
}
