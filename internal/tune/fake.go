package tune

// FakePlayer records played melodies for test assertions.
type FakePlayer struct {
	// Played contains every melody passed to Play.
	Played []Melody

	// OnPlay, if set, runs inside Play before it returns. Tests use it to
	// observe what the caller could (not) do while playback blocks.
	OnPlay func(m Melody)

	// PlayError, if set, will be returned by Play.
	PlayError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePlayer creates a FakePlayer.
func NewFakePlayer() *FakePlayer {
	return &FakePlayer{}
}

// Play records the melody.
func (f *FakePlayer) Play(m Melody) error {
	f.Played = append(f.Played, m)
	if f.OnPlay != nil {
		f.OnPlay(m)
	}
	return f.PlayError
}

// Close marks the player as closed.
func (f *FakePlayer) Close() error {
	f.Closed = true
	return nil
}
