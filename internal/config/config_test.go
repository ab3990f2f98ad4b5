package config

import (
	"testing"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080, Mode: "release"},
		AI:     AIConfig{Provider: ProviderGemini},
		Render: RenderConfig{Resolution: 200},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing api key is not a startup error",
			mutate:  func(c *Config) { c.AI.APIKey = "" },
			wantErr: false,
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "invalid mode",
			mutate:  func(c *Config) { c.Server.Mode = "production" },
			wantErr: true,
		},
		{
			name:    "unsupported provider",
			mutate:  func(c *Config) { c.AI.Provider = "cohere" },
			wantErr: true,
		},
		{
			name:    "provider name is case insensitive",
			mutate:  func(c *Config) { c.AI.Provider = "Anthropic" },
			wantErr: false,
		},
		{
			name:    "negative resolution",
			mutate:  func(c *Config) { c.Render.Resolution = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("Validate() expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestAIConfig_CredentialsPresent(t *testing.T) {
	tests := []struct {
		name string
		cfg  AIConfig
		want bool
	}{
		{"gemini with key", AIConfig{Provider: ProviderGemini, APIKey: "k"}, true},
		{"gemini without key", AIConfig{Provider: ProviderGemini}, false},
		{"bedrock with region and model", AIConfig{Provider: ProviderBedrock, Region: "us-east-1", Model: "anthropic.claude"}, true},
		{"bedrock without region", AIConfig{Provider: ProviderBedrock, Model: "anthropic.claude"}, false},
		{"openai without key", AIConfig{Provider: ProviderOpenAI}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.CredentialsPresent(); got != tt.want {
				t.Errorf("CredentialsPresent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAIConfig_ApplyProviderEnv(t *testing.T) {
	env := map[string]string{
		"GEMINI_API_KEY":    "g-key",
		"GEMINI_MODEL":      "gemini-2.0-flash",
		"ANTHROPIC_API_KEY": "a-key",
	}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		name      string
		cfg       AIConfig
		wantKey   string
		wantModel string
	}{
		{name: "gemini from env", cfg: AIConfig{Provider: ProviderGemini}, wantKey: "g-key", wantModel: "gemini-2.0-flash"},
		{name: "empty provider means gemini", cfg: AIConfig{}, wantKey: "g-key", wantModel: "gemini-2.0-flash"},
		{name: "anthropic from env", cfg: AIConfig{Provider: "Anthropic"}, wantKey: "a-key"},
		{name: "configured values win", cfg: AIConfig{Provider: ProviderGemini, APIKey: "cfg", Model: "m"}, wantKey: "cfg", wantModel: "m"},
		{name: "unknown provider untouched", cfg: AIConfig{Provider: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyProviderEnv(getenv)
			if cfg.APIKey != tt.wantKey {
				t.Errorf("APIKey = %q, want %q", cfg.APIKey, tt.wantKey)
			}
			if cfg.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", cfg.Model, tt.wantModel)
			}
		})
	}
}
