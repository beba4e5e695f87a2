package models

// Room is the authoritative state of one quiz room: the active question and
// the participant roster in join order. All Room data is owned by the
// RoomStore; anything that leaves the store is a Snapshot copy.
type Room struct {
	ID                string
	CurrentQuestionID string    // empty means no active question
	Question          *Question // mirrors CurrentQuestionID, both set together
	Users             []*Participant
}

func NewRoom(id string) *Room {
	return &Room{ID: id}
}

// FindUser returns the participant with the given name, or nil.
func (r *Room) FindUser(name string) *Participant {
	for _, u := range r.Users {
		if u.Name == name {
			return u
		}
	}
	return nil
}

// RoomSnapshot is a read-only copy of a room handed to broadcasts and the
// HTTP surface.
type RoomSnapshot struct {
	ID                string        `json:"roomId"`
	CurrentQuestionID string        `json:"currentQuestionId,omitempty"`
	Question          *Question     `json:"question"`
	Users             []Participant `json:"users"`
}

// Snapshot deep-copies the room, preserving roster order.
func (r *Room) Snapshot() RoomSnapshot {
	s := RoomSnapshot{
		ID:                r.ID,
		CurrentQuestionID: r.CurrentQuestionID,
		Users:             make([]Participant, 0, len(r.Users)),
	}
	if r.Question != nil {
		q := *r.Question
		s.Question = &q
	}
	for _, u := range r.Users {
		s.Users = append(s.Users, u.Clone())
	}
	return s
}
