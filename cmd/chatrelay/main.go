package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/secondbrain-dev/secondbrain/internal/chat"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	var port string

	if port = os.Getenv("CHAT_RELAY_PORT"); port == "" {
		port = "9000"
		log.Println("CHAT_RELAY_PORT not set, defaulting to 9000")
	}

	registry := chat.NewRegistry()
	server := chat.NewServer(registry)

	http.HandleFunc("/ws", server.HandleWS)

	log.Printf("Chat relay running on ws://0.0.0.0:%s/ws", port)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("Failed to start chat relay: %v", err)
	}
}
