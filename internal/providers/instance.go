package providers

import "context"

// Instance is a configured provider with whichever capabilities it supports.
type Instance struct {
	Name         string
	Metadata     map[string]string
	Translator   Translator
	TextToSpeech TextToSpeech
	Health       func(ctx context.Context) error
}

// Capabilities lists the capabilities the instance actually serves.
func (i Instance) Capabilities() []string {
	var caps []string
	if i.Translator != nil {
		caps = append(caps, CapabilityTranslate)
	}
	if i.TextToSpeech != nil {
		caps = append(caps, CapabilitySpeech)
	}
	return caps
}

// Set is the resolved pair of providers used to serve requests.
type Set struct {
	TranslatorName string
	Translator     Translator
	SpeechName     string
	Speech         TextToSpeech
	Instances      map[string]Instance
}

// HealthChecks returns the health probes of every built instance keyed by name.
func (s *Set) HealthChecks() map[string]func(ctx context.Context) error {
	checks := make(map[string]func(ctx context.Context) error, len(s.Instances))
	for name, inst := range s.Instances {
		if inst.Health != nil {
			checks[name] = inst.Health
		}
	}
	return checks
}
