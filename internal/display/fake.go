package display

// FakeDisplay records rendered frames for test assertions.
type FakeDisplay struct {
	// Frames contains every Show call, after leading-zero blanking.
	Frames [][4]byte

	// Colon is the current colon state.
	Colon bool

	// Blanking is the current leading-zero blanking count.
	Blanking int

	// ShowError, if set, will be returned by Show.
	ShowError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeDisplay creates a FakeDisplay with the backpack's default blanking.
func NewFakeDisplay() *FakeDisplay {
	return &FakeDisplay{Blanking: DefaultZeroBlanking}
}

// Show records the digits.
func (f *FakeDisplay) Show(digits [4]byte) error {
	if f.ShowError != nil {
		return f.ShowError
	}
	f.Frames = append(f.Frames, blankLeadingZeros(digits, f.Blanking))
	return nil
}

// SetColon records the colon state.
func (f *FakeDisplay) SetColon(on bool) error {
	f.Colon = on
	return nil
}

// SetLeadingZeroBlanking records the blanking count.
func (f *FakeDisplay) SetLeadingZeroBlanking(count int) {
	f.Blanking = count
}

// Close marks the display as closed.
func (f *FakeDisplay) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recent frame, or zeros if nothing was shown.
func (f *FakeDisplay) Last() [4]byte {
	if len(f.Frames) == 0 {
		return [4]byte{}
	}
	return f.Frames[len(f.Frames)-1]
}
