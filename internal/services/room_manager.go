package services

import (
	"encoding/json"
	"log"

	"github.com/itnxhuy1806/socket-game-be/internal/models"
)

// Dispatcher fans an event out to the sockets of a room. *Hub implements it;
// tests substitute a recording fake.
type Dispatcher interface {
	BroadcastToRoom(roomID string, msg *models.WSMessage)
	BroadcastToRoomExcept(roomID string, msg *models.WSMessage, exceptConnID string)
}

// RoomManager turns participant actions into store mutations followed by the
// broadcasts that keep every socket in the room consistent. It is driven by
// the hub's event loop, one event at a time, so each mutation and its
// broadcasts form one uninterrupted step.
type RoomManager struct {
	store      *RoomStore
	dispatcher Dispatcher
	answers    *AnswerValidator
	metrics    *Metrics

	// Placeholder question title greeting joiners of rooms where the host
	// has not published anything yet.
	waitingQuestion string
}

func NewRoomManager(store *RoomStore, dispatcher Dispatcher, metrics *Metrics, waitingQuestion string) *RoomManager {
	return &RoomManager{
		store:           store,
		dispatcher:      dispatcher,
		answers:         NewAnswerValidator(),
		metrics:         metrics,
		waitingQuestion: waitingQuestion,
	}
}

// HandleConnect joins the participant (creating the room on first join) and
// brings the room up to date: the full snapshot under UpdateQuestion, then
// the refreshed roster.
func (m *RoomManager) HandleConnect(roomID, name string, isHost bool) {
	snap := m.store.Join(roomID, name, isHost)
	if snap.Question == nil {
		snap.Question = &models.Question{Title: m.waitingQuestion}
	}

	m.dispatcher.BroadcastToRoom(roomID, &models.WSMessage{
		Type:    models.MsgTypeUpdateQuestion,
		Payload: snap,
	})
	m.broadcastRoster(roomID, "")
}

// HandleDisconnect marks the participant offline and notifies everyone still
// in the room. The departing connection is never targeted; it may already be
// torn down.
func (m *RoomManager) HandleDisconnect(roomID, name, connID string) {
	if outcome := m.store.MarkOffline(roomID, name); outcome != OutcomeApplied {
		log.Printf("disconnect ignored: room=%s name=%q (%s)", roomID, name, outcome)
	}

	m.dispatcher.BroadcastToRoomExcept(roomID, &models.WSMessage{
		Type: models.MsgTypeUpdateRoom,
	}, connID)
	m.broadcastRoster(roomID, connID)
}

// HandleMessage routes a decoded client frame to the matching operation.
// Malformed frames are dropped.
func (m *RoomManager) HandleMessage(roomID string, msg *models.InboundMessage) {
	switch msg.Type {
	case models.MsgTypeSendQuestion:
		var p models.SendQuestionPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Question.ID == "" {
			log.Printf("invalid SendQuestion payload: room=%s", roomID)
			return
		}
		m.PublishQuestion(roomID, p.Question)

	case models.MsgTypeResetRoom:
		m.ResetRoom(roomID)

	case models.MsgTypeSendAnswer:
		var p models.SendAnswerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			log.Printf("invalid sendAnswer payload: room=%s", roomID)
			return
		}
		m.SubmitAnswer(roomID, p.Name, p.Answer)

	case models.MsgTypeUpdateUsers:
		m.broadcastRoster(roomID, "")
	}
}

// PublishQuestion sets the room's active question and announces it, followed
// by the refreshed roster. Earlier answers stay keyed under their question
// ids; only the active pointer moves.
func (m *RoomManager) PublishQuestion(roomID string, q models.Question) {
	if outcome := m.store.SetQuestion(roomID, q); outcome != OutcomeApplied {
		log.Printf("publish dropped: room=%s question=%s (%s)", roomID, q.ID, outcome)
		return
	}
	m.metrics.IncrementQuestionsPublished()

	m.dispatcher.BroadcastToRoom(roomID, &models.WSMessage{
		Type:    models.MsgTypeUpdateQuestion,
		Payload: models.QuestionPayload{Question: &q},
	})
	m.broadcastRoster(roomID, "")
}

// ResetRoom clears the active question and every participant's answers, then
// announces the empty question state and the refreshed roster. This is the
// only operation that erases answer history.
func (m *RoomManager) ResetRoom(roomID string) {
	if outcome := m.store.ResetAnswers(roomID); outcome != OutcomeApplied {
		log.Printf("reset dropped: room=%s (%s)", roomID, outcome)
		return
	}
	m.metrics.IncrementRoomResets()

	m.dispatcher.BroadcastToRoom(roomID, &models.WSMessage{
		Type:    models.MsgTypeUpdateQuestion,
		Payload: models.QuestionPayload{},
	})
	m.broadcastRoster(roomID, "")
}

// SubmitAnswer records the answer against the room's active question. A
// missing room, participant or active question drops the answer without an
// error frame. The roster broadcast runs regardless so hosts watching
// response counts stay current.
func (m *RoomManager) SubmitAnswer(roomID, name, answer string) {
	text, ok := m.answers.Sanitize(answer)
	if !ok {
		log.Printf("answer rejected: room=%s name=%q", roomID, name)
		m.broadcastRoster(roomID, "")
		return
	}

	outcome := m.store.RecordAnswer(roomID, name, text)
	if outcome == OutcomeApplied {
		m.metrics.IncrementAnswersRecorded()
	} else {
		log.Printf("answer dropped: room=%s name=%q (%s)", roomID, name, outcome)
	}
	m.broadcastRoster(roomID, "")
}

// broadcastRoster emits the room's full roster. A non-empty exceptConnID
// skips that connection.
func (m *RoomManager) broadcastRoster(roomID, exceptConnID string) {
	snap, ok := m.store.Get(roomID)
	if !ok {
		return
	}

	msg := &models.WSMessage{
		Type:    models.MsgTypeUpdateUsers,
		Payload: models.RosterPayload{Users: snap.Users},
	}
	if exceptConnID != "" {
		m.dispatcher.BroadcastToRoomExcept(roomID, msg, exceptConnID)
		return
	}
	m.dispatcher.BroadcastToRoom(roomID, msg)
}
