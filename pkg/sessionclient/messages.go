package sessionclient

import "encoding/json"

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type roomPayload struct {
	RoomId string `json:"roomId"`
}

type seekPayload struct {
	RoomId      string  `json:"roomId"`
	CurrentTime float64 `json:"currentTime"`
}

type changeSongPayload struct {
	RoomId string `json:"roomId"`
	SongId string `json:"songId"`
}

type queueUpdatePayload struct {
	RoomId string   `json:"roomId"`
	Queue  []string `json:"queue"`
}

type addToQueuePayload struct {
	RoomId string `json:"roomId"`
	SongId string `json:"songId"`
}

type syncStatePayload struct {
	RoomId       string   `json:"roomId"`
	SongId       string   `json:"songId"`
	CurrentTime  float64  `json:"currentTime"`
	IsPlaying    bool     `json:"isPlaying"`
	Queue        []string `json:"queue"`
	TargetUserId string   `json:"targetUserId"`
}

type roomCreatedPayload struct {
	RoomId string `json:"roomId"`
}

type userListUpdatePayload struct {
	Participants []string `json:"participants"`
}

type getStatePayload struct {
	NewUserId string `json:"newUserId"`
}

type errorPayload struct {
	Message string `json:"message"`
}
