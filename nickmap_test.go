package main

import "testing"

func TestSeenMap(t *testing.T) {
	s := newSeenMap()
	s.see("Alice", "Alice!a@host1")

	if p, ok := s.prefix("alice"); !ok || p != "Alice!a@host1" {
		t.Fatalf("got %q, %v", p, ok)
	}

	s.rename("alice", "alice_away", "alice_away!a@host1")
	if _, ok := s.prefix("alice"); ok {
		t.Fatal("old nick still present after rename")
	}
	if p, ok := s.prefix("ALICE_AWAY"); !ok || p != "alice_away!a@host1" {
		t.Fatalf("got %q, %v", p, ok)
	}

	s.forget("alice_away")
	if _, ok := s.prefix("alice_away"); ok {
		t.Fatal("nick still present after forget")
	}

	s.see("", "x!y@z")
	if len(s.byNick) != 0 {
		t.Fatalf("empty nick recorded: %v", s.byNick)
	}
}
