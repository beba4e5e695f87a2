package handlers

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/pocketbase/pocketbase/core"

	"github.com/itnxhuy1806/socket-game-be/internal/security"
	"github.com/itnxhuy1806/socket-game-be/internal/services"
)

type WSHandler struct {
	hub     *services.Hub
	origins *security.OriginValidator
}

func NewWSHandler(hub *services.Hub, origins *security.OriginValidator) *WSHandler {
	return &WSHandler{
		hub:     hub,
		origins: origins,
	}
}

// HandleWebSocket upgrades the connection and runs its pumps until it drops.
// The room id, participant name and host claim are fixed at handshake time.
func (h *WSHandler) HandleWebSocket(re *core.RequestEvent) error {
	roomID := re.Request.PathValue("roomId")
	if roomID == "" {
		return re.JSON(http.StatusBadRequest, map[string]string{"error": "room id required"})
	}

	query := re.Request.URL.Query()

	// A bad or absent name still joins the socket to its room; it just never
	// appears on the roster.
	name, err := security.ValidateParticipantName(query.Get("name"))
	if err != nil {
		name = ""
	}

	host := query.Get("host")
	isHost := host == "1" || host == "true"

	conn, err := websocket.Accept(re.Response, re.Request, h.origins.AcceptOptions())
	if err != nil {
		return err
	}

	client := services.NewClient(conn, h.hub, roomID, name, isHost)
	h.hub.Register(client)

	// Blocks until the connection closes; unregistration happens inside the
	// read pump's teardown.
	client.Start()
	return nil
}
