package config

import "time"

// ProviderConfig captures per-provider connection settings.
type ProviderConfig struct {
	Google  GoogleProviderConfig  `mapstructure:"google" json:"google"`
	OpenAI  OpenAIProviderConfig  `mapstructure:"openai" json:"openai"`
	Bedrock BedrockProviderConfig `mapstructure:"bedrock" json:"bedrock"`
}

type GoogleProviderConfig struct {
	TranslateURL string        `mapstructure:"translate_url" json:"translate_url"`
	TTSURL       string        `mapstructure:"tts_url" json:"tts_url"`
	Timeout      time.Duration `mapstructure:"timeout" json:"timeout"`
	UserAgent    string        `mapstructure:"user_agent" json:"user_agent"`
}

type OpenAIProviderConfig struct {
	APIKey           string `mapstructure:"api_key" json:"api_key"`
	BaseURL          string `mapstructure:"base_url" json:"base_url"`
	Organization     string `mapstructure:"organization" json:"organization"`
	TranslationModel string `mapstructure:"translation_model" json:"translation_model"`
	SpeechModel      string `mapstructure:"speech_model" json:"speech_model"`
	Voice            string `mapstructure:"voice" json:"voice"`
}

type BedrockProviderConfig struct {
	Region          string `mapstructure:"region" json:"region"`
	Profile         string `mapstructure:"profile" json:"profile"`
	AccessKeyID     string `mapstructure:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" json:"secret_access_key"`
	SessionToken    string `mapstructure:"session_token" json:"session_token"`
	ModelID         string `mapstructure:"model_id" json:"model_id"`
}

// Masked returns a copy with credentials replaced so the config can be printed.
func (p ProviderConfig) Masked() ProviderConfig {
	out := p
	out.OpenAI.APIKey = mask(out.OpenAI.APIKey)
	out.Bedrock.AccessKeyID = mask(out.Bedrock.AccessKeyID)
	out.Bedrock.SecretAccessKey = mask(out.Bedrock.SecretAccessKey)
	out.Bedrock.SessionToken = mask(out.Bedrock.SessionToken)
	return out
}

func mask(v string) string {
	if v == "" {
		return ""
	}
	return "****"
}
