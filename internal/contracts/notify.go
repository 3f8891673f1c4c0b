package contracts

// Notification is a structured message for the chat webhook sink.
type Notification struct {
	Title    string
	Body     string // markdown body
	Note     string // small-print footer line
	Template string // card color hint, e.g. "purple", "red", "green"
}
