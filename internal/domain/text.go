package domain

// Text is a practice passage handed out when a typing session starts.
type Text struct {
	ID       string   `json:"id"`
	Language Language `json:"language"`
	Content  string   `json:"content"`
}
