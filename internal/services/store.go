package services

import (
	"sync"

	"github.com/itnxhuy1806/socket-game-be/internal/models"
)

// Outcome reports what a store mutation did. The wire protocol never surfaces
// failures (a missing reference is simply ignored), but handlers and tests
// still want to know which branch was taken.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeNoRoom
	OutcomeNoParticipant
	OutcomeNoActiveQuestion
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNoRoom:
		return "no room"
	case OutcomeNoParticipant:
		return "no participant"
	case OutcomeNoActiveQuestion:
		return "no active question"
	}
	return "unknown"
}

// RoomStore owns every Room in the process. Rooms are created lazily on first
// join and live until shutdown. Mutations go through per-room locks so the
// store stays safe even when driven outside the hub's event loop (tests, the
// HTTP read surface).
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*roomEntry
}

type roomEntry struct {
	mu   sync.Mutex
	room *models.Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]*roomEntry)}
}

// entry returns the guarded room, creating it when create is set.
func (s *RoomStore) entry(roomID string, create bool) *roomEntry {
	s.mu.RLock()
	e := s.rooms[roomID]
	s.mu.RUnlock()
	if e != nil || !create {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e = s.rooms[roomID]; e == nil {
		e = &roomEntry{room: models.NewRoom(roomID)}
		s.rooms[roomID] = e
	}
	return e
}

// Join creates the room if needed and marks the named participant online,
// appending it to the roster on first appearance. The host flag keeps its
// first-ever value; later joins under the same name never change it. An empty
// name still creates the room but leaves the roster untouched.
func (s *RoomStore) Join(roomID, name string, isHost bool) models.RoomSnapshot {
	e := s.entry(roomID, true)
	e.mu.Lock()
	defer e.mu.Unlock()

	if name != "" {
		if u := e.room.FindUser(name); u != nil {
			u.Online = true
		} else {
			e.room.Users = append(e.room.Users, models.NewParticipant(name, isHost))
		}
	}
	return e.room.Snapshot()
}

// MarkOffline flips the named participant to offline. Accumulated answers and
// the host flag are kept.
func (s *RoomStore) MarkOffline(roomID, name string) Outcome {
	e := s.entry(roomID, false)
	if e == nil {
		return OutcomeNoRoom
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	u := e.room.FindUser(name)
	if u == nil {
		return OutcomeNoParticipant
	}
	u.Online = false
	return OutcomeApplied
}

// SetQuestion sets the active question and its id in one step.
func (s *RoomStore) SetQuestion(roomID string, q models.Question) Outcome {
	e := s.entry(roomID, false)
	if e == nil {
		return OutcomeNoRoom
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	question := q
	e.room.Question = &question
	e.room.CurrentQuestionID = q.ID
	return OutcomeApplied
}

// ResetAnswers clears the active question and replaces every participant's
// answer map with an empty one. Roster order and the online/host flags are
// preserved. This is the only operation that erases answer history.
func (s *RoomStore) ResetAnswers(roomID string) Outcome {
	e := s.entry(roomID, false)
	if e == nil {
		return OutcomeNoRoom
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.room.Question = nil
	e.room.CurrentQuestionID = ""
	for _, u := range e.room.Users {
		u.Answer = make(map[string]string)
	}
	return OutcomeApplied
}

// RecordAnswer stores the answer under the room's active question,
// overwriting any earlier answer to the same question by the same
// participant. Missing room, participant or active question all degrade to a
// no-op.
func (s *RoomStore) RecordAnswer(roomID, name, answer string) Outcome {
	e := s.entry(roomID, false)
	if e == nil {
		return OutcomeNoRoom
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	u := e.room.FindUser(name)
	if u == nil {
		return OutcomeNoParticipant
	}
	if e.room.CurrentQuestionID == "" {
		return OutcomeNoActiveQuestion
	}
	u.Answer[e.room.CurrentQuestionID] = answer
	return OutcomeApplied
}

// Get returns a snapshot of the room without creating it.
func (s *RoomStore) Get(roomID string) (models.RoomSnapshot, bool) {
	e := s.entry(roomID, false)
	if e == nil {
		return models.RoomSnapshot{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.room.Snapshot(), true
}

// Len reports how many rooms exist.
func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
