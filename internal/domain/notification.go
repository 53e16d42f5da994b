package domain

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

// A Notification is the user-visible outcome of one operation. An approximate
// route is a success carrying Warning, never an error.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Warning bool              `json:"warning,omitempty"`
}
