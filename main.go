package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"github.com/itnxhuy1806/socket-game-be/internal/config"
	"github.com/itnxhuy1806/socket-game-be/internal/handlers"
	"github.com/itnxhuy1806/socket-game-be/internal/security"
	"github.com/itnxhuy1806/socket-game-be/internal/services"
)

func main() {
	pb := pocketbase.New()

	cfg := config.Load()

	metrics := services.NewMetrics()
	metrics.RegisterPrometheus()

	// Room state is in-memory only and lives for the process lifetime.
	store := services.NewRoomStore()
	hub := services.NewHub(metrics)
	manager := services.NewRoomManager(store, hub, metrics, cfg.WaitingQuestion)
	hub.SetManager(manager)
	go hub.Run()

	origins := security.NewOriginValidator(cfg.AllowedOrigins)
	wsHandler := handlers.NewWSHandler(hub, origins)
	roomHandlers := handlers.NewRoomHandlers(store)

	pb.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/", handlers.Home)
		se.Router.GET("/ws/{roomId}", wsHandler.HandleWebSocket)
		se.Router.GET("/api/rooms/{id}", roomHandlers.GetRoom)
		se.Router.GET("/api/health", handlers.HandleHealth(hub))
		se.Router.GET("/api/stats", handlers.HandleStats(hub))
		se.Router.GET("/metrics", handlers.HandlePrometheus())
		se.Router.GET("/public/{path...}", apis.Static(os.DirFS(cfg.PublicDir), false))

		return se.Next()
	})

	if err := pb.Start(); err != nil {
		log.Fatal(err)
	}
}
