package models

// Attachment is an uploaded file referenced by at most one message.
type Attachment struct {
	ID         string `db:"id" json:"id"`
	URL        string `db:"url" json:"url"`
	Type       string `db:"type" json:"type"`
	Filename   string `db:"filename" json:"filename"`
	UploaderID string `db:"uploader_id" json:"uploaderID"`
	UploadedAt int64  `db:"uploaded_at" json:"uploadedAt"`
	MessageID  string `db:"message_id" json:"messageID"`
}

// WebSearch stores a search query and its serialized results for one message.
type WebSearch struct {
	ID        string `db:"id" json:"id"`
	Query     string `db:"query" json:"query"`
	Results   string `db:"results" json:"results"`
	Timestamp int64  `db:"timestamp" json:"timestamp"`
	MessageID string `db:"message_id" json:"messageID"`
}

// Image is a generated image referenced by at most one message.
type Image struct {
	ID          string `db:"id" json:"id"`
	URL         string `db:"url" json:"url"`
	Prompt      string `db:"prompt" json:"prompt"`
	Model       string `db:"model" json:"model"`
	GeneratedAt int64  `db:"generated_at" json:"generatedAt"`
	MessageID   string `db:"message_id" json:"messageID"`
}
