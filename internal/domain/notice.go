package domain

// Severity is the tone of a user-visible notice.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityError   Severity = "error"
)

// Notice is a short message for the notification collaborator.
type Notice struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}
