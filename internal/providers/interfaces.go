package providers

import (
	"context"

	"github.com/ncecere/voice_translator/internal/models"
)

type Translator interface {
	Translate(ctx context.Context, req models.TranslationRequest) (models.TranslationResult, error)
}

type TextToSpeech interface {
	Synthesize(ctx context.Context, req models.SpeechRequest) (models.SpeechResponse, error)
}
