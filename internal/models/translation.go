package models

// AutoDetect is the source language sentinel asking the provider to detect the language.
const AutoDetect = "auto"

// TranslationRequest captures a single text translation call.
type TranslationRequest struct {
	Text                string
	SourceLanguage      string
	DestinationLanguage string
}

// TranslationResult is the normalized provider output.
type TranslationResult struct {
	Text           string
	DetectedSource string
}

// TranslateInput is the browser payload posted to /translate.
type TranslateInput struct {
	Text        string `json:"text"`
	SourceLang  string `json:"src_lang"`
	DestLang    string `json:"dest_lang"`
	SpeakOutput bool   `json:"speak_output"`
	SlowSpeech  bool   `json:"slow_speech"`
}

// TranslationResponse is returned to the browser for every /translate call.
type TranslationResponse struct {
	OriginalText       string  `json:"original_text"`
	TranslatedText     string  `json:"translated_text"`
	AudioURL           *string `json:"audio_url"`
	SourceLangName     string  `json:"src_lang_name"`
	DestLangName       string  `json:"dest_lang_name"`
	DetectedSourceLang *string `json:"detected_src_lang_code"`
}

// Language pairs a language code with its display name.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
