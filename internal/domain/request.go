package domain

type RecognizeTextRequest struct {
	Path string
}

// ShareFileRequest carries optional fields as nil when absent.
type ShareFileRequest struct {
	Path    string
	Subject *string
	Text    *string
}

type ShareItemKind string

const (
	ShareItemText ShareItemKind = "text"
	ShareItemFile ShareItemKind = "file"
)

type ShareItem struct {
	Kind ShareItemKind `json:"kind"`
	Text string        `json:"text,omitempty"`
	Path string        `json:"path,omitempty"`
	URI  string        `json:"uri,omitempty"`
}

// ShareSheet is what gets presented: ordered items plus optional metadata.
type ShareSheet struct {
	Items   []ShareItem
	Subject string
}
