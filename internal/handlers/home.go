package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
)

func Home(re *core.RequestEvent) error {
	return re.JSON(http.StatusOK, map[string]string{
		"name":   "socket-game-be",
		"status": "ok",
	})
}
