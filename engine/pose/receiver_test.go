package pose

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism3d/prism/engine/skeleton"
)

func dialReceiver(t *testing.T, r Receiver) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func fullLandmarks(x float32) []skeleton.Landmark {
	landmarks := make([]skeleton.Landmark, skeleton.LandmarkCount)
	for i := range landmarks {
		landmarks[i] = skeleton.Landmark{X: x, Y: 0.5, Visibility: 1}
	}
	return landmarks
}

// waitForSeq polls Latest until the sequence reaches want or the deadline
// passes.
func waitForSeq(t *testing.T, r Receiver, want uint64) skeleton.LandmarkFrame {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		frame, seq, ok := r.Latest()
		if ok && seq >= want {
			return frame
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("no frame with sequence %d arrived", want)
	return skeleton.LandmarkFrame{}
}

func TestLatestEmptyBeforeFirstFrame(t *testing.T) {
	r := NewReceiver()
	_, seq, ok := r.Latest()
	assert.False(t, ok)
	assert.Zero(t, seq)
}

func TestReceiverStoresDirectLandmarks(t *testing.T) {
	r := NewReceiver()
	conn := dialReceiver(t, r)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"timestamp_ms": 42,
		"landmarks":    fullLandmarks(0.25),
	}))

	frame := waitForSeq(t, r, 1)
	assert.Equal(t, int64(42), frame.TimestampMS)
	require.Len(t, frame.Landmarks, skeleton.LandmarkCount)
	assert.Equal(t, float32(0.25), frame.Landmarks[0].X)
}

func TestReceiverTakesFirstPersonOnly(t *testing.T) {
	r := NewReceiver()
	conn := dialReceiver(t, r)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"timestamp_ms": 7,
		"people":       [][]skeleton.Landmark{fullLandmarks(0.1), fullLandmarks(0.9)},
	}))

	frame := waitForSeq(t, r, 1)
	assert.Equal(t, float32(0.1), frame.Landmarks[0].X)
}

func TestReceiverLatestWins(t *testing.T) {
	r := NewReceiver()
	conn := dialReceiver(t, r)

	for i := 1; i <= 5; i++ {
		require.NoError(t, conn.WriteJSON(map[string]any{
			"timestamp_ms": i,
			"landmarks":    fullLandmarks(float32(i) / 10),
		}))
	}

	frame := waitForSeq(t, r, 5)
	assert.Equal(t, int64(5), frame.TimestampMS)
	assert.Equal(t, float32(0.5), frame.Landmarks[0].X)
}

func TestReceiverSkipsEmptyMessages(t *testing.T) {
	r := NewReceiver()
	conn := dialReceiver(t, r)

	require.NoError(t, conn.WriteJSON(map[string]any{"timestamp_ms": 1}))
	require.NoError(t, conn.WriteJSON(map[string]any{
		"timestamp_ms": 2,
		"landmarks":    fullLandmarks(0.3),
	}))

	frame := waitForSeq(t, r, 1)
	assert.Equal(t, int64(2), frame.TimestampMS, "the empty message must not become a frame")
	_, seq, _ := r.Latest()
	assert.Equal(t, uint64(1), seq)
}
