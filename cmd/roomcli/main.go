// Package main provides the room CLI entry point for testing.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	"github.com/osa030/jamroom/internal/realtime"
)

var (
	app    = kingpin.New("jamroom-roomcli", "Room client for testing")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()

	// create command
	createCmd  = app.Command("create", "Create a room")
	createName = createCmd.Arg("name", "Room name").Required().String()
	createCode = createCmd.Flag("code", "Join code (generated when empty)").String()

	// join command
	joinCmd    = app.Command("join", "Join a room as a participant")
	joinRoomID = joinCmd.Arg("room-id", "Room ID").Required().String()
	joinName   = joinCmd.Arg("name", "Display name").Required().String()

	// add command
	addCmd     = app.Command("add", "Add a song to a room's queue")
	addRoomID  = addCmd.Arg("room-id", "Room ID").Required().String()
	addVideoID = addCmd.Arg("video-id", "YouTube video ID").Required().String()
	addTitle   = addCmd.Arg("title", "Song title").Required().String()
	addBy      = addCmd.Flag("by", "Requester name").Default("roomcli").String()

	// watch command
	watchCmd      = app.Command("watch", "Watch a room's events")
	watchRoomID   = watchCmd.Arg("room-id", "Room ID").Required().String()
	watchAttempts = watchCmd.Flag("max-attempts", "Reconnect attempts before giving up").Default("5").Int()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	switch command {
	case createCmd.FullCommand():
		create(*createName, *createCode)
	case joinCmd.FullCommand():
		join(*joinRoomID, *joinName)
	case addCmd.FullCommand():
		add(*addRoomID, *addVideoID, *addTitle, *addBy)
	case watchCmd.FullCommand():
		watch(*watchRoomID, *watchAttempts)
	}
}

func create(name, code string) {
	var resp struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}
	post("/api/rooms", map[string]any{"name": name, "code": code}, &resp)
	fmt.Printf("Room created! ID: %s  Code: %s\n", resp.ID, resp.Code)
}

func join(roomID, name string) {
	var resp struct {
		ID       string `json:"id"`
		Initials string `json:"initials"`
	}
	post("/api/rooms/"+roomID+"/participants", map[string]any{"name": name}, &resp)
	fmt.Printf("Joined! Participant ID: %s (%s)\n", resp.ID, resp.Initials)
}

func add(roomID, videoID, title, by string) {
	var resp struct {
		ID string `json:"id"`
	}
	post("/api/rooms/"+roomID+"/queue", map[string]any{
		"youtubeId":   videoID,
		"title":       title,
		"requestedBy": by,
	}, &resp)
	fmt.Printf("Song added! ID: %s\n", resp.ID)
}

func watch(roomID string, maxAttempts int) {
	wsURL := strings.Replace(*server, "http", "ws", 1) + "/ws"

	client, err := realtime.NewClient(realtime.ClientConfig{
		URL:         wsURL,
		RoomID:      roomID,
		MaxAttempts: maxAttempts,
	}, printEvent)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Printf("Watching room %s (Ctrl-C to stop)\n", roomID)
	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func printEvent(msg realtime.ServerMessage) {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		data = []byte("{}")
	}
	fmt.Printf("[%s] %s %s\n", time.Now().Format(time.TimeOnly), msg.Type, data)
}

// post sends a JSON request and decodes the response, exiting on error.
func post(path string, body any, out any) {
	payload, err := json.Marshal(body)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	resp, err := http.Post(*server+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		fmt.Printf("Error: %s (status %d)\n", apiErr.Error, resp.StatusCode)
		os.Exit(1)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
