package session

import (
	"fmt"
	"sync"
	"testing"

	"codesync/internal/app/user"
)

// emitted is one captured outbound delivery.
type emitted struct {
	to      string
	event   Event
	payload Payload
}

// recorder implements Emitter and captures every delivery for assertions.
type recorder struct {
	mu     sync.Mutex
	frames []emitted
}

func newRecorder() *recorder { return &recorder{} }

func (r *recorder) Emit(socketID string, event Event, payload Payload) {
	r.mu.Lock()
	r.frames = append(r.frames, emitted{to: socketID, event: event, payload: payload})
	r.mu.Unlock()
}

func (r *recorder) all() []emitted {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]emitted, len(r.frames))
	copy(out, r.frames)
	return out
}

func (r *recorder) to(socketID string) []emitted {
	var out []emitted
	for _, f := range r.all() {
		if f.to == socketID {
			out = append(out, f)
		}
	}
	return out
}

func (r *recorder) count(socketID string, event Event) int {
	n := 0
	for _, f := range r.to(socketID) {
		if f.event == event {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.frames = nil
	r.mu.Unlock()
}

func rosterOf(p Payload) []user.User {
	users, _ := p["users"].([]user.User)
	return users
}

func TestJoinFirstUserGetsAcceptWithSelfRoster(t *testing.T) {
	rec := newRecorder()
	hub := NewHub(rec)

	hub.Join("s1", "r1", "alice")

	frames := rec.to("s1")
	if len(frames) != 1 || frames[0].event != EventAcceptJoin {
		t.Fatalf("expected single accept-join to joiner, got %#v", frames)
	}

	roster := rosterOf(frames[0].payload)
	if len(roster) != 1 || roster[0].Username != "alice" || roster[0].SocketID != "s1" {
		t.Fatalf("unexpected roster: %#v", roster)
	}
	if roster[0].Status != user.StatusOnline || roster[0].Typing || roster[0].CursorPosition != 0 || roster[0].CurrentFile != nil {
		t.Fatalf("joiner defaults wrong: %#v", roster[0])
	}
}

func TestJoinDuplicateUsernameRejected(t *testing.T) {
	rec := newRecorder()
	hub := NewHub(rec)

	hub.Join("s1", "r1", "alice")
	rec.reset()

	hub.Join("s2", "r1", "alice")

	frames := rec.to("s2")
	if len(frames) != 1 || frames[0].event != EventUsernameTaken {
		t.Fatalf("expected username-already-taken reply, got %#v", frames)
	}
	if got := rec.count("s1", EventNewUserConnected); got != 0 {
		t.Fatalf("rejected join must not broadcast, got %d notices", got)
	}
	if users := hub.Users("r1"); len(users) != 1 || users[0].Username != "alice" {
		t.Fatalf("rejected join must leave the roster unchanged: %#v", users)
	}

	// the same connection may retry with a different name
	rec.reset()
	hub.Join("s2", "r1", "bob")

	accepts := rec.to("s2")
	if len(accepts) != 1 || accepts[0].event != EventAcceptJoin {
		t.Fatalf("expected accept-join after retry, got %#v", accepts)
	}
	roster := rosterOf(accepts[0].payload)
	if len(roster) != 2 || roster[0].Username != "alice" || roster[1].Username != "bob" {
		t.Fatalf("unexpected roster after retry: %#v", roster)
	}
	if got := rec.count("s1", EventNewUserConnected); got != 1 {
		t.Fatalf("expected exactly one new-user-connected to alice, got %d", got)
	}
}

func TestJoinSameUsernameDifferentRooms(t *testing.T) {
	rec := newRecorder()
	hub := NewHub(rec)

	hub.Join("s1", "r1", "alice")
	hub.Join("s2", "r2", "alice")

	if got := rec.count("s2", EventAcceptJoin); got != 1 {
		t.Fatalf("username uniqueness must be per room, got %d accepts", got)
	}
}

func TestJoinUsernamesAreCaseSensitive(t *testing.T) {
	rec := newRecorder()
	hub := NewHub(rec)

	hub.Join("s1", "r1", "alice")
	hub.Join("s2", "r1", "Alice")

	if got := rec.count("s2", EventAcceptJoin); got != 1 {
		t.Fatalf("expected case-sensitive match to accept Alice, got %d accepts", got)
	}
}

func TestJoinDuplicateSocketIDRejected(t *testing.T) {
	rec := newRecorder()
	hub := NewHub(rec)

	hub.Join("s1", "r1", "alice")
	rec.reset()

	hub.Join("s1", "r1", "bob")

	if frames := rec.all(); len(frames) != 0 {
		t.Fatalf("duplicate socket id must not emit anything, got %#v", frames)
	}
	if users := hub.Users("r1"); len(users) != 1 || users[0].Username != "alice" {
		t.Fatalf("duplicate socket id must not overwrite state: %#v", users)
	}
}

func TestDisconnectBroadcastsUserLeftThenRemoves(t *testing.T) {
	rec := newRecorder()
	hub := NewHub(rec)

	hub.Join("s1", "r1", "alice")
	hub.Join("s2", "r1", "bob")
	rec.reset()

	hub.Disconnect("s1")

	frames := rec.to("s2")
	if len(frames) != 1 || frames[0].event != EventUserLeft {
		t.Fatalf("expected single user-left to bob, got %#v", frames)
	}
	left, _ := frames[0].payload["user"].(user.User)
	if left.Username != "alice" {
		t.Fatalf("unexpected departing user: %#v", left)
	}
	if len(rec.to("s1")) != 0 {
		t.Fatalf("departing user must not be notified")
	}
	if users := hub.Users("r1"); len(users) != 1 || users[0].Username != "bob" {
		t.Fatalf("unexpected roster after disconnect: %#v", users)
	}

	// disconnect is delivered once; a repeat is a silent no-op
	rec.reset()
	hub.Disconnect("s1")
	if frames := rec.all(); len(frames) != 0 {
		t.Fatalf("second disconnect must be a no-op, got %#v", frames)
	}
}

func TestDisconnectNeverJoinedIsNoop(t *testing.T) {
	rec := newRecorder()
	hub := NewHub(rec)

	hub.Join("s1", "r1", "alice")
	rec.reset()

	hub.Disconnect("never-joined")

	if frames := rec.all(); len(frames) != 0 {
		t.Fatalf("disconnecting an unjoined connection must emit nothing, got %#v", frames)
	}
	if users := hub.Users("r1"); len(users) != 1 {
		t.Fatalf("roster must be unchanged: %#v", users)
	}
}

func TestConcurrentJoinsSameUsernameAdmitExactlyOne(t *testing.T) {
	rec := newRecorder()
	hub := NewHub(rec)

	const attempts = 32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			hub.Join(fmt.Sprintf("s%d", n), "r1", "alice")
		}(i)
	}
	wg.Wait()

	users := hub.Users("r1")
	if len(users) != 1 {
		t.Fatalf("expected exactly one alice, got %d", len(users))
	}

	accepts, rejects := 0, 0
	for _, f := range rec.all() {
		switch f.event {
		case EventAcceptJoin:
			accepts++
		case EventUsernameTaken:
			rejects++
		}
	}
	if accepts != 1 || rejects != attempts-1 {
		t.Fatalf("expected 1 accept and %d rejects, got %d/%d", attempts-1, accepts, rejects)
	}
}
