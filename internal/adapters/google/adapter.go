package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ncecere/voice_translator/internal/models"
	"github.com/ncecere/voice_translator/internal/providers/providererr"
)

const (
	providerName = "google"

	// maxSpeechChunk is the longest text the translate_tts endpoint accepts per call.
	maxSpeechChunk = 100

	slowSpeed   = "0.3"
	normalSpeed = "1"
)

var (
	errBadTranslateResponse = errors.New("bad response from google translate")
	errBadSpeechResponse    = errors.New("bad response from google tts")
)

// Options configure the Google web endpoint adapter.
type Options struct {
	TranslateURL string
	TTSURL       string
	Timeout      time.Duration
	UserAgent    string
	HTTPClient   *http.Client
}

// Adapter talks to the keyless Google Translate web endpoints.
type Adapter struct {
	httpClient *http.Client
	opts       Options
}

// New creates a Google adapter.
func New(opts Options) (*Adapter, error) {
	if strings.TrimSpace(opts.TranslateURL) == "" {
		return nil, errors.New("google: translate url required")
	}
	if strings.TrimSpace(opts.TTSURL) == "" {
		return nil, errors.New("google: tts url required")
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Adapter{httpClient: client, opts: opts}, nil
}

// Translate sends the text to the translate_a/single endpoint.
func (a *Adapter) Translate(ctx context.Context, req models.TranslationRequest) (models.TranslationResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return models.TranslationResult{}, providererr.New(providerName, providererr.KindInvalid, 0, errors.New("text is required"))
	}
	source := strings.TrimSpace(req.SourceLanguage)
	if source == "" {
		source = models.AutoDetect
	}

	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", source)
	query.Set("tl", req.DestinationLanguage)
	query.Set("dt", "t")
	form := url.Values{}
	form.Set("q", text)

	endpoint := a.opts.TranslateURL + "?" + query.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return models.TranslationResult{}, fmt.Errorf("google: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	a.setHeaders(httpReq)

	body, err := a.do(httpReq, errBadTranslateResponse)
	if err != nil {
		return models.TranslationResult{}, err
	}
	result, err := parseTranslateResponse(body)
	if err != nil {
		return models.TranslationResult{}, providererr.New(providerName, providererr.KindBadResponse, http.StatusOK, fmt.Errorf("%w: %v", errBadTranslateResponse, err))
	}
	return result, nil
}

// Synthesize renders text with translate_tts. Long text is split into chunks
// and the resulting mp3 frames are concatenated.
func (a *Adapter) Synthesize(ctx context.Context, req models.SpeechRequest) (models.SpeechResponse, error) {
	chunks := splitText(req.Text, maxSpeechChunk)
	if len(chunks) == 0 {
		return models.SpeechResponse{}, providererr.New(providerName, providererr.KindInvalid, 0, errors.New("text is required for speech synthesis"))
	}
	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		return models.SpeechResponse{}, providererr.New(providerName, providererr.KindInvalid, 0, errors.New("language is required for speech synthesis"))
	}
	speed := normalSpeed
	if req.Slow {
		speed = slowSpeed
	}

	var audio bytes.Buffer
	for idx, chunk := range chunks {
		query := url.Values{}
		query.Set("ie", "UTF-8")
		query.Set("client", "tw-ob")
		query.Set("tl", lang)
		query.Set("q", chunk)
		query.Set("ttsspeed", speed)
		query.Set("total", strconv.Itoa(len(chunks)))
		query.Set("idx", strconv.Itoa(idx))
		query.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.opts.TTSURL+"?"+query.Encode(), nil)
		if err != nil {
			return models.SpeechResponse{}, fmt.Errorf("google: build request: %w", err)
		}
		a.setHeaders(httpReq)
		body, err := a.do(httpReq, errBadSpeechResponse)
		if err != nil {
			return models.SpeechResponse{}, err
		}
		if len(body) == 0 {
			return models.SpeechResponse{}, providererr.New(providerName, providererr.KindBadResponse, http.StatusOK, errBadSpeechResponse)
		}
		audio.Write(body)
	}
	return models.SpeechResponse{Audio: audio.Bytes(), ContentType: "audio/mpeg", Format: "mp3"}, nil
}

// HealthCheck issues a tiny translation to confirm the endpoint is reachable.
func (a *Adapter) HealthCheck(ctx context.Context) error {
	_, err := a.Translate(ctx, models.TranslationRequest{Text: "ok", SourceLanguage: "en", DestinationLanguage: "es"})
	return err
}

func (a *Adapter) setHeaders(req *http.Request) {
	if ua := strings.TrimSpace(a.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}
}

func (a *Adapter) do(req *http.Request, badResponse error) ([]byte, error) {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, providererr.FromTransport(providerName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, providererr.FromTransport(providerName, err)
	}
	if resp.StatusCode != http.StatusOK {
		perr := providererr.FromStatus(providerName, resp.StatusCode, "")
		if perr.Kind == providererr.KindBadResponse {
			perr.Err = badResponse
		}
		return nil, perr
	}
	return body, nil
}

// parseTranslateResponse decodes the positional array returned by translate_a/single.
// Index 0 holds [translated, original, ...] segments and index 2 the detected source.
func parseTranslateResponse(body []byte) (models.TranslationResult, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return models.TranslationResult{}, err
	}
	if len(top) == 0 {
		return models.TranslationResult{}, errors.New("empty payload")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(top[0], &segments); err != nil {
		return models.TranslationResult{}, fmt.Errorf("decode segments: %w", err)
	}
	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		b.WriteString(part)
	}

	var detected string
	if len(top) > 2 {
		_ = json.Unmarshal(top[2], &detected)
	}
	return models.TranslationResult{
		Text:           b.String(),
		DetectedSource: strings.ToLower(strings.TrimSpace(detected)),
	}, nil
}

// splitText breaks text on whitespace into chunks of at most max runes.
// Words longer than max are cut.
func splitText(text string, max int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > max {
			flush()
			chunks = append(chunks, string(runes[:max]))
			runes = runes[max:]
		}
		if len(runes) == 0 {
			continue
		}
		needed := len(runes)
		if currentLen > 0 {
			needed++
		}
		if currentLen+needed > max {
			flush()
			needed = len(runes)
		}
		if currentLen > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(string(runes))
		currentLen += needed
	}
	flush()
	return chunks
}
