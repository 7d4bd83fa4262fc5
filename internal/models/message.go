package models

import "time"

// Message kinds carried in the Kind field of a chat entry.
const (
	KindText  = "text"
	KindImage = "image"
	KindFile  = "file"
)

// FileData describes an attachment carried inline with a message.
type FileData struct {
	Name string `json:"name"`
	Mime string `json:"mimeType"`
	Size int64  `json:"size"`
	Data string `json:"data"`
}

// Reaction is a single emoji reaction on a message. Reactions accumulate;
// repeated identical reactions from the same user are kept as-is.
type Reaction struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Emoji    string `json:"reaction"`
}

// Message is one chat history entry. UserName is snapshotted at send time and
// never re-resolved against the live roster.
type Message struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	UserName  string     `json:"userName"`
	Body      string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
	Kind      string     `json:"type"`
	File      *FileData  `json:"fileData,omitempty"`
	Edited    bool       `json:"edited"`
	Reactions []Reaction `json:"reactions,omitempty"`
}

// Member is the lightweight roster entry a room keeps per connection.
type Member struct {
	ID   string `json:"userId"`
	Name string `json:"userName"`
}
