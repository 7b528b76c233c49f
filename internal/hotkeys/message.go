package hotkeys

import "errors"

var (
	// ErrAlreadyRecording is returned by StartRecording while another
	// recording session is active.
	ErrAlreadyRecording = errors.New("already recording a hotkey; finish or press Esc to cancel")

	// ErrDuplicateBinding is carried by MessageBindingConflict when a recorded
	// binding equals the binding of another action.
	ErrDuplicateBinding = errors.New("hotkey is already in use by another action")
)

// MessageKind classifies engine output.
type MessageKind uint8

const (
	// MessageActionFired asks the UI goroutine to run Action's counter operation.
	MessageActionFired MessageKind = iota + 1
	// MessageRecordingStarted asks the UI to show the recording prompt.
	MessageRecordingStarted
	// MessageRecordingCancelled asks the UI to restore Binding's label.
	MessageRecordingCancelled
	// MessageBindingCommitted reports that Action is now bound to Binding.
	MessageBindingCommitted
	// MessageBindingConflict reports a rejected Candidate; Binding is unchanged.
	MessageBindingConflict
)

func (k MessageKind) String() string {
	switch k {
	case MessageActionFired:
		return "action-fired"
	case MessageRecordingStarted:
		return "recording-started"
	case MessageRecordingCancelled:
		return "recording-cancelled"
	case MessageBindingCommitted:
		return "binding-committed"
	case MessageBindingConflict:
		return "binding-conflict"
	default:
		return "unknown"
	}
}

// Message is posted by the engine for the UI goroutine. It is a plain value
// and carries everything the receiver needs; the receiver never calls back
// into the engine to interpret it.
type Message struct {
	Kind    MessageKind
	Action  Action
	Binding Binding
	// SessionID identifies the recording session for recording messages.
	SessionID string
	// Candidate is the rejected binding for MessageBindingConflict.
	Candidate Binding
	// ConflictsWith is the action already holding Candidate.
	ConflictsWith Action
	Err           error
}

// Sink receives engine messages. Post must not block and must not call back
// into the engine synchronously.
type Sink interface {
	Post(Message)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Message)

// Post calls f(msg).
func (f SinkFunc) Post(msg Message) {
	f(msg)
}

type discardSink struct{}

func (discardSink) Post(Message) {}
