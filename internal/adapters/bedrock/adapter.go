package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"github.com/ncecere/voice_translator/internal/models"
	"github.com/ncecere/voice_translator/internal/providers/promptutil"
	"github.com/ncecere/voice_translator/internal/providers/providererr"
)

const (
	providerName = "bedrock"

	defaultAnthropicVersion = "bedrock-2023-05-31"
	defaultMaxTokens        = 2048
)

// Options controls how the Bedrock adapter is initialised.
type Options struct {
	Region          string
	Profile         string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	ModelID          string
	AnthropicVersion string
	MaxTokens        int32
}

// invoker is the subset of the runtime client the adapter uses.
type invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Adapter implements translation backed by Anthropic models on Amazon Bedrock.
type Adapter struct {
	client    invoker
	stsClient *sts.Client
	opts      Options
}

// New creates a Bedrock adapter using the provided credentials/region.
func New(ctx context.Context, opts Options) (*Adapter, error) {
	if opts.Region == "" {
		return nil, errors.New("bedrock region required")
	}
	if opts.ModelID == "" {
		return nil, errors.New("bedrock model id required")
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
		config.WithRetryMaxAttempts(1),
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		staticProvider := credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken)
		loadOpts = append(loadOpts, config.WithCredentialsProvider(staticProvider))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if awsCfg.Region == "" {
		awsCfg.Region = opts.Region
	}

	return newWithClient(bedrockruntime.NewFromConfig(awsCfg), sts.NewFromConfig(awsCfg), opts), nil
}

func newWithClient(client invoker, stsClient *sts.Client, opts Options) *Adapter {
	if opts.AnthropicVersion == "" {
		opts.AnthropicVersion = defaultAnthropicVersion
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	return &Adapter{client: client, stsClient: stsClient, opts: opts}
}

// Translate invokes the configured Claude model with a JSON reply contract.
func (a *Adapter) Translate(ctx context.Context, req models.TranslationRequest) (models.TranslationResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return models.TranslationResult{}, providererr.New(providerName, providererr.KindInvalid, 0, errors.New("text is required"))
	}

	body, err := a.buildAnthropicBody(promptutil.UserPrompt(text, req.SourceLanguage, req.DestinationLanguage))
	if err != nil {
		return models.TranslationResult{}, err
	}
	out, err := a.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(a.opts.ModelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return models.TranslationResult{}, classify(err)
	}
	return parseAnthropicTranslation(out.Body)
}

// HealthCheck verifies the AWS credentials without paying for inference.
func (a *Adapter) HealthCheck(ctx context.Context) error {
	if a.stsClient == nil {
		return errors.New("bedrock sts client not initialised")
	}
	_, err := a.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	return err
}

func (a *Adapter) buildAnthropicBody(prompt string) ([]byte, error) {
	body := anthropicRequest{
		AnthropicVersion: a.opts.AnthropicVersion,
		System:           promptutil.SystemPrompt,
		MaxTokens:        a.opts.MaxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: []anthropicContent{{Type: "text", Text: prompt}}},
		},
	}
	return json.Marshal(body)
}

func parseAnthropicTranslation(payload []byte) (models.TranslationResult, error) {
	var parsed anthropicResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return models.TranslationResult{}, providererr.New(providerName, providererr.KindBadResponse, 0, fmt.Errorf("decode bedrock response: %w", err))
	}
	text, detected, err := promptutil.ParseReply(parsed.JoinText())
	if err != nil {
		return models.TranslationResult{}, providererr.New(providerName, providererr.KindBadResponse, 0, err)
	}
	return models.TranslationResult{Text: text, DetectedSource: detected}, nil
}

// classify maps Bedrock API error codes onto provider error kinds.
func classify(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return providererr.FromTransport(providerName, err)
	}
	kind := providererr.KindInvalid
	switch apiErr.ErrorCode() {
	case "ThrottlingException", "ServiceQuotaExceededException":
		kind = providererr.KindRateLimited
	case "ModelTimeoutException":
		kind = providererr.KindTimeout
	case "ServiceUnavailableException", "InternalServerException", "ModelNotReadyException":
		kind = providererr.KindBadResponse
	}
	return providererr.New(providerName, kind, 0, err)
}

// anthropicRequest models the payload expected by Claude 3 on Bedrock.
type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
	MaxTokens        int32              `json:"max_tokens"`
	Temperature      float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int32 `json:"input_tokens"`
	OutputTokens int32 `json:"output_tokens"`
}

type anthropicResponse struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Role       string             `json:"role"`
	Content    []anthropicContent `json:"content"`
	StopReason string             `json:"stop_reason"`
	Usage      anthropicUsage     `json:"usage"`
}

func (a anthropicResponse) JoinText() string {
	var b strings.Builder
	for _, c := range a.Content {
		if c.Type == "text" {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}
