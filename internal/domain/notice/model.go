package notice

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Canceller - отложенное действие, которое можно отменить через Undo.
type Canceller interface {
	Cancel() bool
}

// Notice - кратковременное сообщение для пользователя.
type Notice struct {
	Content  string
	Severity Severity
	Undoable bool
	ItemID   int
	Cancel   Canceller
}

// Event - изменение содержимого слота. Cleared=true означает пустой слот.
type Event struct {
	Notice  Notice
	Cleared bool
}
