package sessionclient

// Player is the local media pipeline a session drives. Load replaces the
// current track and optionally starts playback; the probe methods feed the
// host's state snapshots.
type Player interface {
	Load(songId string, autoPlay bool)
	Play()
	Pause()
	SeekTo(seconds float64)

	CurrentSongId() string
	CurrentTime() float64
	IsPlaying() bool
}
