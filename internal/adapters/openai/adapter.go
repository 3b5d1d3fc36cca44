package openai

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"github.com/ncecere/voice_translator/internal/models"
	"github.com/ncecere/voice_translator/internal/providers/promptutil"
	"github.com/ncecere/voice_translator/internal/providers/providererr"
)

const (
	providerName = "openai"

	defaultTranslationModel = "gpt-4o-mini"
	defaultSpeechModel      = "gpt-4o-mini-tts"
	defaultVoice            = "alloy"

	slowSpeed = 0.75
)

// Options configure the OpenAI adapter.
type Options struct {
	APIKey           string
	BaseURL          string
	Organization     string
	TranslationModel string
	SpeechModel      string
	Voice            string
	Extra            []option.RequestOption
}

// Adapter wraps the official OpenAI SDK for native + compatible deployments.
type Adapter struct {
	client           *openai.Client
	translationModel string
	speechModel      string
	voice            string
}

// New creates an OpenAI adapter using the provided API key and optional base URL/organization.
func New(opts Options) (*Adapter, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai: api key required")
	}

	requestOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if strings.TrimSpace(opts.BaseURL) != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(strings.TrimRight(opts.BaseURL, "/")))
	}
	if strings.TrimSpace(opts.Organization) != "" {
		requestOpts = append(requestOpts, option.WithOrganization(strings.TrimSpace(opts.Organization)))
	}
	// Retries are owned by the translation retrier.
	requestOpts = append(requestOpts, option.WithMaxRetries(0))
	requestOpts = append(requestOpts, opts.Extra...)

	client := openai.NewClient(requestOpts...)
	return &Adapter{
		client:           &client,
		translationModel: firstNonEmpty(opts.TranslationModel, defaultTranslationModel),
		speechModel:      firstNonEmpty(opts.SpeechModel, defaultSpeechModel),
		voice:            firstNonEmpty(opts.Voice, defaultVoice),
	}, nil
}

// Translate asks a chat model for a JSON-wrapped translation.
func (a *Adapter) Translate(ctx context.Context, req models.TranslationRequest) (models.TranslationResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return models.TranslationResult{}, providererr.New(providerName, providererr.KindInvalid, 0, errors.New("text is required"))
	}
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.translationModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(promptutil.SystemPrompt),
			openai.UserMessage(promptutil.UserPrompt(text, req.SourceLanguage, req.DestinationLanguage)),
		},
		Temperature: param.NewOpt(0.0),
	}
	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return models.TranslationResult{}, classify(err)
	}
	return convertChatCompletion(*resp)
}

// Synthesize renders speech with the Audio API as mp3.
func (a *Adapter) Synthesize(ctx context.Context, req models.SpeechRequest) (models.SpeechResponse, error) {
	input := strings.TrimSpace(req.Text)
	if input == "" {
		return models.SpeechResponse{}, providererr.New(providerName, providererr.KindInvalid, 0, errors.New("input is required for speech synthesis"))
	}
	format := strings.TrimSpace(req.Format)
	if format == "" {
		format = "mp3"
	}
	params := openai.AudioSpeechNewParams{
		Model: openai.SpeechModel(a.speechModel),
		Input: input,
		Voice: openai.AudioSpeechNewParamsVoice(a.voice),
	}
	params.ResponseFormat = openai.AudioSpeechNewParamsResponseFormat(format)
	if req.Slow {
		params.Speed = param.NewOpt(slowSpeed)
	}
	resp, err := a.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return models.SpeechResponse{}, classify(err)
	}
	defer resp.Body.Close()
	audioBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.SpeechResponse{}, providererr.FromTransport(providerName, err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return models.SpeechResponse{Audio: audioBytes, ContentType: contentType, Format: format}, nil
}

// HealthCheck lists models to verify credentials.
func (a *Adapter) HealthCheck(ctx context.Context) error {
	_, err := a.client.Models.List(ctx)
	if err != nil {
		return classify(err)
	}
	return nil
}

func convertChatCompletion(resp openai.ChatCompletion) (models.TranslationResult, error) {
	if len(resp.Choices) == 0 {
		return models.TranslationResult{}, providererr.New(providerName, providererr.KindBadResponse, 0, errors.New("bad response: no choices"))
	}
	text, detected, err := promptutil.ParseReply(resp.Choices[0].Message.Content)
	if err != nil {
		return models.TranslationResult{}, providererr.New(providerName, providererr.KindBadResponse, 0, err)
	}
	return models.TranslationResult{Text: text, DetectedSource: detected}, nil
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return providererr.New(providerName, providererr.KindForStatus(apiErr.StatusCode), apiErr.StatusCode, err)
	}
	return providererr.FromTransport(providerName, err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
