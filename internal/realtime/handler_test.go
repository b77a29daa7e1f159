package realtime

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/jamroom/internal/store"
)

func TestServeWS_UnknownRoomJoinIsSilent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	r, err := st.CreateRoom("", "Test Room")
	require.NoError(t, err)

	hub := NewHub(st)
	engine := gin.New()
	engine.GET("/ws", NewHandler(hub).ServeWS)

	srv := httptest.NewServer(engine)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	// A join for a missing room produces no reply at all; the connection
	// stays usable, so the next join's snapshot is the first message.
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: TypeJoinRoom, RoomID: "missing"}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: TypeJoinRoom, RoomID: r.ID}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, EventRoomState, msg.Type)

	state, ok := msg.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, r.ID, state["id"])
}
