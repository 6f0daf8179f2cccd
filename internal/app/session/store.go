/*
Package session contains the core logic of the coordination hub.

This file defines the PresenceStore, the authoritative table of connected
users keyed by socket id, together with its room index: a secondary mapping
from room id to member socket ids, maintained incrementally on every insert
and remove so that room-scoped lookups never scan the full table.
*/
package session

import (
	"sort"

	"codesync/internal/app/user"
	"codesync/internal/pkg/errs"
)

// record wraps a stored user with a join sequence number, used to keep
// rosters in join order.
type record struct {
	user user.User
	seq  uint64
}

// PresenceStore holds one record per live joined connection. It is not safe
// for concurrent use on its own; the Hub's mutex serializes all access, so
// every read-mutate-roster sequence is atomic with respect to other events.
type PresenceStore struct {
	users map[string]*record
	rooms map[string]map[string]struct{}
	seq   uint64
}

// NewPresenceStore returns an empty store.
func NewPresenceStore() *PresenceStore {
	return &PresenceStore{
		users: make(map[string]*record),
		rooms: make(map[string]map[string]struct{}),
	}
}

// Insert adds a new user record. It fails with ErrDuplicateConnection if the
// socket id is already present; the existing record is never overwritten.
func (s *PresenceStore) Insert(u user.User) *errs.CustomError {
	if _, ok := s.users[u.SocketID]; ok {
		return errs.NewError(errs.ErrDuplicateConnection)
	}

	s.seq++
	s.users[u.SocketID] = &record{user: u, seq: s.seq}

	members, ok := s.rooms[u.RoomID]
	if !ok {
		members = make(map[string]struct{})
		s.rooms[u.RoomID] = members
	}
	members[u.SocketID] = struct{}{}

	return nil
}

// Remove deletes the user with the given socket id. Removing an unknown id is
// a no-op, not an error. Rooms are implicit: the room entry disappears with
// its last member.
func (s *PresenceStore) Remove(socketID string) {
	rec, ok := s.users[socketID]
	if !ok {
		return
	}

	delete(s.users, socketID)

	if members, ok := s.rooms[rec.user.RoomID]; ok {
		delete(members, socketID)
		if len(members) == 0 {
			delete(s.rooms, rec.user.RoomID)
		}
	}
}

// Find returns a copy of the user with the given socket id. Absence is a
// normal, expected outcome (e.g., a late event after disconnect).
func (s *PresenceStore) Find(socketID string) (user.User, bool) {
	rec, ok := s.users[socketID]
	if !ok {
		return user.User{}, false
	}
	return rec.user, true
}

// Update applies a field-level mutation to the user with the given socket id.
// It is a no-op if the user is absent. The mutator must not change SocketID
// or RoomID; those are fixed for the lifetime of the record.
func (s *PresenceStore) Update(socketID string, mutate func(u *user.User)) {
	rec, ok := s.users[socketID]
	if !ok {
		return
	}
	mutate(&rec.user)
}

// UsersInRoom returns copies of all users in the given room, in join order.
// An unknown room yields an empty slice.
func (s *PresenceStore) UsersInRoom(roomID string) []user.User {
	members, ok := s.rooms[roomID]
	if !ok {
		return nil
	}

	recs := make([]*record, 0, len(members))
	for socketID := range members {
		recs = append(recs, s.users[socketID])
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	users := make([]user.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, rec.user)
	}
	return users
}

// RoomOf returns the room id of the given socket. The second return value is
// false if the socket is unknown (never joined, or already disconnected).
func (s *PresenceStore) RoomOf(socketID string) (string, bool) {
	rec, ok := s.users[socketID]
	if !ok {
		return "", false
	}
	return rec.user.RoomID, true
}

// UsernameInRoom reports whether the given display name is already held by a
// member of the room. The comparison is a case-sensitive exact match.
func (s *PresenceStore) UsernameInRoom(roomID, username string) bool {
	for socketID := range s.rooms[roomID] {
		if s.users[socketID].user.Username == username {
			return true
		}
	}
	return false
}

// Len returns the total number of stored users across all rooms.
func (s *PresenceStore) Len() int {
	return len(s.users)
}
