package services_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itnxhuy1806/socket-game-be/internal/models"
	"github.com/itnxhuy1806/socket-game-be/internal/services"
)

// recordingDispatcher captures broadcasts in emission order.
type recordingDispatcher struct {
	events []recordedEvent
}

type recordedEvent struct {
	RoomID string
	Type   string
	Except string
	Msg    *models.WSMessage
}

func (d *recordingDispatcher) BroadcastToRoom(roomID string, msg *models.WSMessage) {
	d.events = append(d.events, recordedEvent{RoomID: roomID, Type: msg.Type, Msg: msg})
}

func (d *recordingDispatcher) BroadcastToRoomExcept(roomID string, msg *models.WSMessage, exceptConnID string) {
	d.events = append(d.events, recordedEvent{RoomID: roomID, Type: msg.Type, Except: exceptConnID, Msg: msg})
}

func (d *recordingDispatcher) types() []string {
	out := make([]string, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

func newManager() (*services.RoomManager, *services.RoomStore, *recordingDispatcher) {
	store := services.NewRoomStore()
	dispatcher := &recordingDispatcher{}
	manager := services.NewRoomManager(store, dispatcher, services.NewMetrics(), "wait for host start")
	return manager, store, dispatcher
}

func TestRoomManager_HandleConnect(t *testing.T) {
	t.Run("greets a fresh room with the placeholder question", func(t *testing.T) {
		manager, _, dispatcher := newManager()

		manager.HandleConnect("room-1", "alice", true)

		require.Equal(t, []string{models.MsgTypeUpdateQuestion, models.MsgTypeUpdateUsers}, dispatcher.types())

		snap, ok := dispatcher.events[0].Msg.Payload.(models.RoomSnapshot)
		require.True(t, ok)
		require.NotNil(t, snap.Question)
		assert.Equal(t, "wait for host start", snap.Question.Title)
		assert.Empty(t, snap.CurrentQuestionID)
	})

	t.Run("sends the active question to late joiners", func(t *testing.T) {
		manager, _, dispatcher := newManager()
		manager.HandleConnect("room-1", "alice", true)
		manager.PublishQuestion("room-1", models.Question{ID: "q1", Title: "2+2?"})
		dispatcher.events = nil

		manager.HandleConnect("room-1", "bob", false)

		snap, ok := dispatcher.events[0].Msg.Payload.(models.RoomSnapshot)
		require.True(t, ok)
		require.NotNil(t, snap.Question)
		assert.Equal(t, "q1", snap.Question.ID)
		require.Len(t, snap.Users, 2)
	})

	t.Run("connect with an empty name still syncs the room", func(t *testing.T) {
		manager, store, dispatcher := newManager()

		manager.HandleConnect("room-1", "", false)

		assert.Equal(t, []string{models.MsgTypeUpdateQuestion, models.MsgTypeUpdateUsers}, dispatcher.types())
		snap, ok := store.Get("room-1")
		require.True(t, ok)
		assert.Empty(t, snap.Users)
	})
}

func TestRoomManager_HandleDisconnect(t *testing.T) {
	t.Run("notifies the room excluding the departing connection", func(t *testing.T) {
		manager, store, dispatcher := newManager()
		manager.HandleConnect("room-1", "alice", true)
		dispatcher.events = nil

		manager.HandleDisconnect("room-1", "alice", "conn-a")

		require.Equal(t, []string{models.MsgTypeUpdateRoom, models.MsgTypeUpdateUsers}, dispatcher.types())
		assert.Equal(t, "conn-a", dispatcher.events[0].Except)
		assert.Equal(t, "conn-a", dispatcher.events[1].Except)

		snap, _ := store.Get("room-1")
		assert.False(t, snap.Users[0].Online)
	})

	t.Run("unknown participant still notifies the room", func(t *testing.T) {
		manager, _, dispatcher := newManager()
		manager.HandleConnect("room-1", "alice", true)
		dispatcher.events = nil

		manager.HandleDisconnect("room-1", "ghost", "conn-g")

		assert.Equal(t, []string{models.MsgTypeUpdateRoom, models.MsgTypeUpdateUsers}, dispatcher.types())
	})
}

func TestRoomManager_PublishQuestion(t *testing.T) {
	t.Run("broadcasts the question then the roster", func(t *testing.T) {
		manager, store, dispatcher := newManager()
		manager.HandleConnect("room-1", "alice", true)
		dispatcher.events = nil

		manager.PublishQuestion("room-1", models.Question{ID: "q1", Title: "2+2?"})

		require.Equal(t, []string{models.MsgTypeUpdateQuestion, models.MsgTypeUpdateUsers}, dispatcher.types())

		payload, ok := dispatcher.events[0].Msg.Payload.(models.QuestionPayload)
		require.True(t, ok)
		require.NotNil(t, payload.Question)
		assert.Equal(t, "q1", payload.Question.ID)

		snap, _ := store.Get("room-1")
		assert.Equal(t, "q1", snap.CurrentQuestionID)
	})

	t.Run("publish to an absent room emits nothing", func(t *testing.T) {
		manager, _, dispatcher := newManager()

		manager.PublishQuestion("ghost", models.Question{ID: "q1", Title: "2+2?"})

		assert.Empty(t, dispatcher.events)
	})

	t.Run("publishing a new question keeps prior answers", func(t *testing.T) {
		manager, store, _ := newManager()
		manager.HandleConnect("room-1", "alice", false)
		manager.PublishQuestion("room-1", models.Question{ID: "q1", Title: "first"})
		manager.SubmitAnswer("room-1", "alice", "42")

		manager.PublishQuestion("room-1", models.Question{ID: "q2", Title: "second"})
		manager.SubmitAnswer("room-1", "alice", "7")

		snap, _ := store.Get("room-1")
		assert.Equal(t, map[string]string{"q1": "42", "q2": "7"}, snap.Users[0].Answer)
	})
}

func TestRoomManager_ResetRoom(t *testing.T) {
	t.Run("announces the empty question state and roster", func(t *testing.T) {
		manager, store, dispatcher := newManager()
		manager.HandleConnect("room-1", "alice", true)
		manager.PublishQuestion("room-1", models.Question{ID: "q1", Title: "first"})
		manager.SubmitAnswer("room-1", "alice", "42")
		dispatcher.events = nil

		manager.ResetRoom("room-1")

		require.Equal(t, []string{models.MsgTypeUpdateQuestion, models.MsgTypeUpdateUsers}, dispatcher.types())

		payload, ok := dispatcher.events[0].Msg.Payload.(models.QuestionPayload)
		require.True(t, ok)
		assert.Nil(t, payload.Question)

		snap, _ := store.Get("room-1")
		assert.Empty(t, snap.CurrentQuestionID)
		assert.Empty(t, snap.Users[0].Answer)
	})

	t.Run("reset of an absent room emits nothing", func(t *testing.T) {
		manager, _, dispatcher := newManager()

		manager.ResetRoom("ghost")

		assert.Empty(t, dispatcher.events)
	})
}

func TestRoomManager_SubmitAnswer(t *testing.T) {
	t.Run("records and rebroadcasts the roster", func(t *testing.T) {
		manager, _, dispatcher := newManager()
		manager.HandleConnect("room-1", "alice", false)
		manager.PublishQuestion("room-1", models.Question{ID: "q1", Title: "2+2?"})
		dispatcher.events = nil

		manager.SubmitAnswer("room-1", "alice", "4")

		require.Equal(t, []string{models.MsgTypeUpdateUsers}, dispatcher.types())
		payload, ok := dispatcher.events[0].Msg.Payload.(models.RosterPayload)
		require.True(t, ok)
		require.Len(t, payload.Users, 1)
		assert.Equal(t, map[string]string{"q1": "4"}, payload.Users[0].Answer)
	})

	t.Run("answer with no active question changes nothing but still syncs", func(t *testing.T) {
		manager, store, dispatcher := newManager()
		manager.HandleConnect("room-1", "alice", false)
		dispatcher.events = nil

		manager.SubmitAnswer("room-1", "alice", "4")

		assert.Equal(t, []string{models.MsgTypeUpdateUsers}, dispatcher.types())
		snap, _ := store.Get("room-1")
		assert.Empty(t, snap.Users[0].Answer)
	})

	t.Run("control characters are rejected silently", func(t *testing.T) {
		manager, store, _ := newManager()
		manager.HandleConnect("room-1", "alice", false)
		manager.PublishQuestion("room-1", models.Question{ID: "q1", Title: "2+2?"})

		manager.SubmitAnswer("room-1", "alice", "4\x00")

		snap, _ := store.Get("room-1")
		assert.Empty(t, snap.Users[0].Answer)
	})
}

func TestRoomManager_BroadcastOrdering(t *testing.T) {
	t.Run("publish, answer, roster request preserve call order", func(t *testing.T) {
		manager, _, dispatcher := newManager()
		manager.HandleConnect("room-1", "alice", true)
		dispatcher.events = nil

		manager.PublishQuestion("room-1", models.Question{ID: "q1", Title: "2+2?"})
		manager.SubmitAnswer("room-1", "alice", "4")
		manager.HandleMessage("room-1", &models.InboundMessage{Type: models.MsgTypeUpdateUsers})

		assert.Equal(t, []string{
			models.MsgTypeUpdateQuestion,
			models.MsgTypeUpdateUsers,
			models.MsgTypeUpdateUsers,
			models.MsgTypeUpdateUsers,
		}, dispatcher.types())
	})
}

func TestRoomManager_HandleMessage(t *testing.T) {
	t.Run("routes SendQuestion", func(t *testing.T) {
		manager, store, _ := newManager()
		manager.HandleConnect("room-1", "alice", true)

		payload, _ := json.Marshal(models.SendQuestionPayload{
			Question: models.Question{ID: "q1", Title: "2+2?"},
		})
		manager.HandleMessage("room-1", &models.InboundMessage{
			Type:    models.MsgTypeSendQuestion,
			Payload: payload,
		})

		snap, _ := store.Get("room-1")
		assert.Equal(t, "q1", snap.CurrentQuestionID)
	})

	t.Run("routes sendAnswer using the payload name", func(t *testing.T) {
		manager, store, _ := newManager()
		manager.HandleConnect("room-1", "alice", false)
		manager.PublishQuestion("room-1", models.Question{ID: "q1", Title: "2+2?"})

		payload, _ := json.Marshal(models.SendAnswerPayload{Name: "alice", Answer: "4"})
		manager.HandleMessage("room-1", &models.InboundMessage{
			Type:    models.MsgTypeSendAnswer,
			Payload: payload,
		})

		snap, _ := store.Get("room-1")
		assert.Equal(t, map[string]string{"q1": "4"}, snap.Users[0].Answer)
	})

	t.Run("routes ResetRoom", func(t *testing.T) {
		manager, store, _ := newManager()
		manager.HandleConnect("room-1", "alice", true)
		manager.PublishQuestion("room-1", models.Question{ID: "q1", Title: "2+2?"})

		manager.HandleMessage("room-1", &models.InboundMessage{Type: models.MsgTypeResetRoom})

		snap, _ := store.Get("room-1")
		assert.Empty(t, snap.CurrentQuestionID)
	})

	t.Run("drops a question without an id", func(t *testing.T) {
		manager, store, dispatcher := newManager()
		manager.HandleConnect("room-1", "alice", true)
		dispatcher.events = nil

		payload, _ := json.Marshal(models.SendQuestionPayload{
			Question: models.Question{Title: "no id"},
		})
		manager.HandleMessage("room-1", &models.InboundMessage{
			Type:    models.MsgTypeSendQuestion,
			Payload: payload,
		})

		assert.Empty(t, dispatcher.events)
		snap, _ := store.Get("room-1")
		assert.Nil(t, snap.Question)
	})

	t.Run("drops malformed payloads", func(t *testing.T) {
		manager, _, dispatcher := newManager()
		manager.HandleConnect("room-1", "alice", true)
		dispatcher.events = nil

		manager.HandleMessage("room-1", &models.InboundMessage{
			Type:    models.MsgTypeSendQuestion,
			Payload: json.RawMessage(`{"question": 12}`),
		})

		assert.Empty(t, dispatcher.events)
	})
}
