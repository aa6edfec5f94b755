package views

// Status is the one-line outcome shown under the chat input
type Status struct {
	Text  string
	IsErr bool
}

// Set replaces the status line
func (s *Status) Set(text string, isErr bool) {
	s.Text = text
	s.IsErr = isErr
}

// Clear empties the status line
func (s *Status) Clear() {
	*s = Status{}
}

// SwitchToChatMsg returns to the chat console
type SwitchToChatMsg struct{}

// SwitchToHelpMsg opens the key reference
type SwitchToHelpMsg struct{}
