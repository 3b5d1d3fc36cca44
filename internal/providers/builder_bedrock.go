package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ncecere/voice_translator/internal/adapters/bedrock"
	"github.com/ncecere/voice_translator/internal/config"
)

func init() {
	RegisterDefinition(Definition{
		Name:         "bedrock",
		Description:  "AWS Bedrock (Anthropic Claude translation)",
		Capabilities: []string{CapabilityTranslate},
		Builder:      buildBedrockInstance,
	})
}

func buildBedrockInstance(ctx context.Context, cfg *config.Config) (Instance, error) {
	cfg = EnsureConfig(cfg)
	bc := cfg.Providers.Bedrock

	region := strings.TrimSpace(bc.Region)
	if region == "" {
		region = strings.TrimSpace(cfg.Audio.S3.Region)
	}
	if region == "" {
		return Instance{}, fmt.Errorf("aws region required for bedrock provider")
	}
	modelID := strings.TrimSpace(bc.ModelID)
	if modelID == "" {
		return Instance{}, fmt.Errorf("bedrock provider requires providers.bedrock.model_id")
	}

	adapter, err := bedrock.New(ctx, bedrock.Options{
		Region:          region,
		Profile:         strings.TrimSpace(bc.Profile),
		AccessKeyID:     strings.TrimSpace(bc.AccessKeyID),
		SecretAccessKey: strings.TrimSpace(bc.SecretAccessKey),
		SessionToken:    strings.TrimSpace(bc.SessionToken),
		ModelID:         modelID,
	})
	if err != nil {
		return Instance{}, err
	}

	return Instance{
		Name: "bedrock",
		Metadata: map[string]string{
			"region":   region,
			"model_id": modelID,
		},
		Translator: adapter,
		Health:     adapter.HealthCheck,
	}, nil
}
