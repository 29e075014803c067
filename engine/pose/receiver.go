// Package pose receives live landmark frames over a websocket and hands the
// most recent one to the render loop. The stream side pushes at whatever rate
// the tracker runs; the render loop polls Latest once per frame, so stale
// frames are simply overwritten and nothing ever blocks on the socket.
package pose

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/prism3d/prism/engine/skeleton"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// message is one inbound stream payload. Trackers that detect multiple people
// send them all; only the first person drives the skeleton. Single-person
// trackers may send the landmark list directly instead.
type message struct {
	TimestampMS int64                 `json:"timestamp_ms"`
	People      [][]skeleton.Landmark `json:"people,omitempty"`
	Landmarks   []skeleton.Landmark   `json:"landmarks,omitempty"`
}

// Receiver accepts pose stream connections and stores the latest frame.
// It is an http.Handler: mount it on the route the tracker dials.
type Receiver interface {
	http.Handler

	// Latest returns the most recently received frame together with its
	// sequence number. The sequence increments once per stored frame, so a
	// caller can skip recomputing when nothing new arrived. ok is false until
	// the first frame lands.
	//
	// Returns:
	//   - skeleton.LandmarkFrame: the latest frame
	//   - uint64: the frame sequence number
	//   - bool: false until a frame has been received
	Latest() (skeleton.LandmarkFrame, uint64, bool)
}

var _ Receiver = &receiverImpl{}

type receiverImpl struct {
	mu     sync.RWMutex
	latest skeleton.LandmarkFrame
	seq    uint64

	readLimit int64
}

func (r *receiverImpl) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Println("pose stream upgrade error:", err)
		return
	}
	defer conn.Close()
	if r.readLimit > 0 {
		conn.SetReadLimit(r.readLimit)
	}
	log.Printf("pose stream connected from %s", conn.RemoteAddr())

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("pose stream read error:", err)
			}
			return
		}

		landmarks := msg.Landmarks
		if len(msg.People) > 0 {
			landmarks = msg.People[0]
		}
		if len(landmarks) == 0 {
			continue
		}

		r.mu.Lock()
		r.latest = skeleton.LandmarkFrame{
			TimestampMS: msg.TimestampMS,
			Landmarks:   landmarks,
		}
		r.seq++
		r.mu.Unlock()
	}
}

func (r *receiverImpl) Latest() (skeleton.LandmarkFrame, uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest, r.seq, r.seq > 0
}
