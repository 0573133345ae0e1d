package ficsdto

import "time"

type Communication struct {
	Kind   string    `json:"kind"`
	ID     string    `json:"id"`
	Handle string    `json:"handle"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

type Conversation struct {
	ID       string          `json:"id"`
	Messages []Communication `json:"messages"`
}

// SendRequest is a raw command line or a tell to post to the server.
type SendRequest struct {
	Command string `json:"command,omitempty"`
	Tell    string `json:"tell,omitempty"`
	Text    string `json:"text,omitempty"`
}
