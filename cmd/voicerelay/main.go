package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/secondbrain-dev/secondbrain/internal/voicerelay"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	var port string

	if port = os.Getenv("VOICE_RELAY_PORT"); port == "" {
		port = "5001"
		log.Println("VOICE_RELAY_PORT not set, defaulting to 5001")
	}

	upstreamURL := os.Getenv("STT_UPSTREAM_URL")

	if upstreamURL == "" {
		upstreamURL = "ws://127.0.0.1:2700"
		log.Println("STT_UPSTREAM_URL not set, defaulting to ws://127.0.0.1:2700")
	}

	server := voicerelay.NewServer(upstreamURL)

	http.HandleFunc("/ws", server.HandleWS)

	log.Printf("Voice relay running on ws://0.0.0.0:%s/ws", port)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("Failed to start voice relay: %v", err)
	}
}
