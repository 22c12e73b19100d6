// Package sessionclient implements the client side of the listen-together
// protocol: it keeps the local role and room id, turns local player actions
// into protocol messages, and applies inbound messages to the local player.
package sessionclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Role int

const (
	RoleNone Role = iota
	RoleHost
	RoleGuest
)

// settleDelay gives the media pipeline time to reach a loaded state before
// the position from a snapshot is applied.
const settleDelay = 500 * time.Millisecond

var ErrSessionActive = errors.New("session already active")

type Config struct {
	// URL of the session websocket endpoint.
	URL string
	// PendingRoomId, when set (from an invite link), makes StartSession
	// join that room as a guest instead of creating one.
	PendingRoomId string

	Player Player
	Dialer *websocket.Dialer
	Logger *slog.Logger

	// UI callbacks. All are optional and invoked from the read loop.
	OnRoomCreated  func(roomId string)
	OnParticipants func(participants []string)
	OnQueue        func(queue []string)
	OnError        func(message string)
	OnSessionEnd   func()
}

type Client struct {
	cfg    Config
	logger *slog.Logger

	mu          sync.Mutex
	conn        *websocket.Conn
	role        Role
	roomId      string
	active      bool
	queue       []string
	settleTimer *time.Timer
}

func New(cfg Config) *Client {
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{cfg: cfg, logger: logger}
}

// StartSession opens the connection and either joins the pending room as a
// guest or creates a new room as host.
func (c *Client) StartSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		return ErrSessionActive
	}

	conn, _, err := c.cfg.Dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return err
	}

	c.conn = conn
	c.active = true

	if c.cfg.PendingRoomId != "" {
		c.role = RoleGuest
		c.roomId = c.cfg.PendingRoomId
		if err := conn.WriteJSON(&outMessage{
			Type:    "JOIN_ROOM",
			Payload: roomPayload{RoomId: c.cfg.PendingRoomId},
		}); err != nil {
			c.teardownLocked()
			return err
		}
	} else {
		c.role = RoleHost
		if err := conn.WriteJSON(&outMessage{
			Type:    "CREATE_ROOM",
			Payload: struct{}{},
		}); err != nil {
			c.teardownLocked()
			return err
		}
	}

	go c.readLoop(conn)

	return nil
}

// LeaveSession closes the connection and clears local session state.
// Idempotent; leaving twice is a no-op.
func (c *Client) LeaveSession() {
	c.mu.Lock()
	wasActive := c.active
	c.teardownLocked()
	c.mu.Unlock()

	if wasActive && c.cfg.OnSessionEnd != nil {
		c.cfg.OnSessionEnd()
	}
}

func (c *Client) teardownLocked() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	if c.settleTimer != nil {
		c.settleTimer.Stop()
		c.settleTimer = nil
	}

	c.active = false
	c.role = RoleNone
	c.roomId = ""
	c.queue = nil
}

func (c *Client) IsHost() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active && c.role == RoleHost
}

func (c *Client) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Client) RoomId() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomId
}

func (c *Client) Queue() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.queue)
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			c.logger.Debug("connection closed", "error", err)
			c.LeaveSession()
			return
		}

		c.handle(&msg)
	}
}

func (c *Client) handle(msg *message) {
	switch msg.Type {
	case "ROOM_CREATED":
		var payload roomCreatedPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		c.mu.Lock()
		isHost := c.role == RoleHost
		if isHost {
			c.roomId = payload.RoomId
			c.queue = nil
		}
		c.mu.Unlock()
		if isHost && c.cfg.OnRoomCreated != nil {
			c.cfg.OnRoomCreated(payload.RoomId)
		}

	case "USER_LIST_UPDATE":
		var payload userListUpdatePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		if c.cfg.OnParticipants != nil {
			c.cfg.OnParticipants(payload.Participants)
		}

	case "QUEUE_UPDATE":
		var payload queueUpdatePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		c.setQueue(payload.Queue)

	case "ADD_TO_QUEUE":
		// a guest asked for a track; the host owns the queue and echoes
		// the new version back to the room
		var payload addToQueuePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		c.mu.Lock()
		if c.role != RoleHost {
			c.mu.Unlock()
			return
		}
		c.queue = append(c.queue, payload.SongId)
		queue := slices.Clone(c.queue)
		roomId := c.roomId
		c.mu.Unlock()
		c.send(&outMessage{
			Type:    "QUEUE_UPDATE",
			Payload: queueUpdatePayload{RoomId: roomId, Queue: queue},
		})
		if c.cfg.OnQueue != nil {
			c.cfg.OnQueue(queue)
		}

	case "CHANGE_SONG":
		var payload changeSongPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		if !c.IsHost() {
			c.cfg.Player.Load(payload.SongId, true)
		}

	case "PLAY":
		if !c.IsHost() {
			c.cfg.Player.Play()
		}

	case "PAUSE":
		if !c.IsHost() {
			c.cfg.Player.Pause()
		}

	case "SEEK":
		var payload seekPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		if !c.IsHost() {
			c.cfg.Player.SeekTo(payload.CurrentTime)
		}

	case "GET_STATE_FOR_NEW_USER":
		var payload getStatePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		c.mu.Lock()
		if c.role != RoleHost {
			c.mu.Unlock()
			return
		}
		snapshot := syncStatePayload{
			RoomId:       c.roomId,
			SongId:       c.cfg.Player.CurrentSongId(),
			CurrentTime:  c.cfg.Player.CurrentTime(),
			IsPlaying:    c.cfg.Player.IsPlaying(),
			Queue:        slices.Clone(c.queue),
			TargetUserId: payload.NewUserId,
		}
		c.mu.Unlock()
		c.send(&outMessage{Type: "SYNC_STATE", Payload: snapshot})

	case "SYNC_STATE":
		var payload syncStatePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		c.applySyncState(&payload)

	case "ERROR":
		var payload errorPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		if c.cfg.OnError != nil {
			c.cfg.OnError(payload.Message)
		}
		c.LeaveSession()
	}
}

// applySyncState brings a guest up to the host's state. The seek is
// deferred by the settle delay so the track is loaded before the position
// is applied; a newer snapshot supersedes the pending seek.
func (c *Client) applySyncState(payload *syncStatePayload) {
	c.mu.Lock()
	if c.role == RoleHost {
		c.mu.Unlock()
		return
	}

	c.queue = slices.Clone(payload.Queue)
	queue := slices.Clone(c.queue)

	if c.settleTimer != nil {
		c.settleTimer.Stop()
	}

	currentTime := payload.CurrentTime
	isPlaying := payload.IsPlaying
	c.settleTimer = time.AfterFunc(settleDelay, func() {
		c.cfg.Player.SeekTo(currentTime)
		if !isPlaying {
			c.cfg.Player.Pause()
		}
	})
	c.mu.Unlock()

	if c.cfg.OnQueue != nil {
		c.cfg.OnQueue(queue)
	}

	c.cfg.Player.Load(payload.SongId, payload.IsPlaying)
}

// TogglePlayPause flips local playback. Guests in an active session are
// followers; for them this is a no-op.
func (c *Client) TogglePlayPause() {
	c.mu.Lock()
	if c.active && c.role != RoleHost {
		c.mu.Unlock()
		return
	}
	isHost := c.active && c.role == RoleHost
	roomId := c.roomId
	c.mu.Unlock()

	if c.cfg.Player.IsPlaying() {
		c.cfg.Player.Pause()
		if isHost {
			c.send(&outMessage{Type: "PAUSE", Payload: roomPayload{RoomId: roomId}})
		}
	} else {
		c.cfg.Player.Play()
		if isHost {
			c.send(&outMessage{Type: "PLAY", Payload: roomPayload{RoomId: roomId}})
		}
	}
}

// ChangeSong loads a track locally and, for an active host, announces it
// to the room.
func (c *Client) ChangeSong(songId string) {
	c.mu.Lock()
	if c.active && c.role != RoleHost {
		c.mu.Unlock()
		return
	}
	isHost := c.active && c.role == RoleHost
	roomId := c.roomId
	c.mu.Unlock()

	if isHost && c.cfg.Player.CurrentSongId() != songId {
		c.send(&outMessage{
			Type:    "CHANGE_SONG",
			Payload: changeSongPayload{RoomId: roomId, SongId: songId},
		})
	}

	c.cfg.Player.Load(songId, true)
}

// Seek moves local playback and, for an active host, the whole room.
func (c *Client) Seek(seconds float64) {
	c.mu.Lock()
	if c.active && c.role != RoleHost {
		c.mu.Unlock()
		return
	}
	isHost := c.active && c.role == RoleHost
	roomId := c.roomId
	c.mu.Unlock()

	c.cfg.Player.SeekTo(seconds)
	if isHost {
		c.send(&outMessage{
			Type:    "SEEK",
			Payload: seekPayload{RoomId: roomId, CurrentTime: seconds},
		})
	}
}

// NextSong pops the queue head and plays it.
func (c *Client) NextSong() {
	c.mu.Lock()
	if c.active && c.role != RoleHost {
		c.mu.Unlock()
		return
	}
	if len(c.queue) == 0 {
		c.mu.Unlock()
		return
	}

	nextSongId := c.queue[0]
	c.queue = c.queue[1:]
	queue := slices.Clone(c.queue)
	isHost := c.active && c.role == RoleHost
	roomId := c.roomId
	c.mu.Unlock()

	if isHost {
		c.send(&outMessage{
			Type:    "QUEUE_UPDATE",
			Payload: queueUpdatePayload{RoomId: roomId, Queue: queue},
		})
	}
	if c.cfg.OnQueue != nil {
		c.cfg.OnQueue(queue)
	}

	c.ChangeSong(nextSongId)
}

// AddToQueue appends a track. A host applies it and shares the new queue;
// a guest only requests it from the host.
func (c *Client) AddToQueue(songId string) {
	c.mu.Lock()
	if c.active && c.role == RoleGuest {
		roomId := c.roomId
		c.mu.Unlock()
		c.send(&outMessage{
			Type:    "ADD_TO_QUEUE",
			Payload: addToQueuePayload{RoomId: roomId, SongId: songId},
		})
		return
	}

	c.queue = append(c.queue, songId)
	queue := slices.Clone(c.queue)
	isHost := c.active && c.role == RoleHost
	roomId := c.roomId
	c.mu.Unlock()

	if isHost {
		c.send(&outMessage{
			Type:    "QUEUE_UPDATE",
			Payload: queueUpdatePayload{RoomId: roomId, Queue: queue},
		})
	}
	if c.cfg.OnQueue != nil {
		c.cfg.OnQueue(queue)
	}
}

func (c *Client) setQueue(queue []string) {
	c.mu.Lock()
	c.queue = slices.Clone(queue)
	c.mu.Unlock()

	if c.cfg.OnQueue != nil {
		c.cfg.OnQueue(queue)
	}
}

func (c *Client) send(msg *outMessage) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return
	}

	if err := conn.WriteJSON(msg); err != nil {
		c.logger.Debug("failed to send message", "type", msg.Type, "error", err)
	}
}
