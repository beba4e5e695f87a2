package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"github.com/itnxhuy1806/socket-game-be/internal/services"
)

type RoomHandlers struct {
	store *services.RoomStore
}

func NewRoomHandlers(store *services.RoomStore) *RoomHandlers {
	return &RoomHandlers{store: store}
}

// GetRoom returns a read-only snapshot of a room. Rooms are created by the
// first WebSocket join, never here.
func (h *RoomHandlers) GetRoom(re *core.RequestEvent) error {
	roomID := re.Request.PathValue("id")

	snap, ok := h.store.Get(roomID)
	if !ok {
		return re.JSON(http.StatusNotFound, map[string]string{
			"error": "Room not found",
		})
	}

	return re.JSON(http.StatusOK, snap)
}
