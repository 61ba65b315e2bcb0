package session

// opDoneMsg is sent when an orchestrator call started by the screen returns.
type opDoneMsg struct {
	Op  string
	Err error
}

// masteryTickMsg advances the mastery bar animation by one frame.
type masteryTickMsg struct{}

// styleUpdatedMsg is sent when a learning-style change has been saved.
type styleUpdatedMsg struct {
	Style string
	Err   error
}
