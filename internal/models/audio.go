package models

// SpeechRequest drives text-to-speech generation.
type SpeechRequest struct {
	Text     string
	Language string
	Slow     bool
	Format   string
}

// SpeechResponse returns generated audio bytes.
type SpeechResponse struct {
	Audio       []byte
	ContentType string
	Format      string
}
