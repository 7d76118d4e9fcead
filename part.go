package docfill

// Part is one piece of a model request: text or inline binary data (used to
// hand a scanned PDF straight to the model when it has no text layer).
type Part struct {
	Type     string
	Text     string
	Data     []byte
	MimeType string
}

// NewTextPart creates a new text part
func NewTextPart(text string) *Part {
	return &Part{Type: "text", Text: text}
}

// NewDataPart creates a new inline-data part with data and mime type
func NewDataPart(data []byte, mimeType string) *Part {
	return &Part{Type: "data", Data: data, MimeType: mimeType}
}

// Message represents a message in a model conversation
type Message struct {
	Role  string
	Parts []*Part
}

// NewUserMessage creates a new user message
func NewUserMessage(parts ...*Part) *Message {
	return &Message{Role: "user", Parts: parts}
}

// NewSystemMessage creates a new system message
func NewSystemMessage(parts ...*Part) *Message {
	return &Message{Role: "system", Parts: parts}
}
