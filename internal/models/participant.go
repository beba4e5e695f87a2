package models

// Participant is one named member of a room. The name is the dedup key within
// the room; the host flag is fixed at first join and only presence toggles.
type Participant struct {
	Name   string            `json:"name"`
	IsHost bool              `json:"isHost"`
	Online bool              `json:"online"`
	Answer map[string]string `json:"answer"` // question id -> answer text
}

func NewParticipant(name string, isHost bool) *Participant {
	return &Participant{
		Name:   name,
		IsHost: isHost,
		Online: true,
		Answer: make(map[string]string),
	}
}

// Clone returns a deep copy safe to hand to broadcast encoders.
func (p *Participant) Clone() Participant {
	answers := make(map[string]string, len(p.Answer))
	for q, a := range p.Answer {
		answers[q] = a
	}
	return Participant{
		Name:   p.Name,
		IsHost: p.IsHost,
		Online: p.Online,
		Answer: answers,
	}
}
