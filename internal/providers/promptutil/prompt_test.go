package promptutil

import (
	"errors"
	"testing"
)

func TestParseReply(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		text     string
		detected string
	}{
		{name: "plain", raw: `{"translation":"Hola","detected_language":"EN"}`, text: "Hola", detected: "en"},
		{name: "fenced", raw: "```json\n{\"translation\": \"Bonjour\", \"detected_language\": \"en\"}\n```", text: "Bonjour", detected: "en"},
		{name: "prose around", raw: "Sure! {\"translation\":\"Ciao\"} hope that helps", text: "Ciao", detected: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, detected, err := ParseReply(tc.raw)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if text != tc.text || detected != tc.detected {
				t.Fatalf("got %q/%q want %q/%q", text, detected, tc.text, tc.detected)
			}
		})
	}
}

func TestParseReplyMalformed(t *testing.T) {
	if _, _, err := ParseReply("no json here"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if _, _, err := ParseReply(`{"translation": }`); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestUserPromptAuto(t *testing.T) {
	got := UserPrompt("hello", "auto", "fr")
	want := "Translate from the detected source language to fr:\n\nhello"
	if got != want {
		t.Fatalf("got %q", got)
	}
}
