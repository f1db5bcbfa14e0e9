package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "APP_ENV", "COOKIE_SECURE", "SESSION_TTL_DAYS", "AI_PROVIDER", "OUTPUT_FORMAT", "AI_MAX_TOKENS", "ANTHROPIC_MODEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":3000" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Auth.SessionTTL != 7*24*time.Hour {
		t.Fatalf("unexpected ttl: %s", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.SecureCookie {
		t.Fatal("expected insecure cookie outside production")
	}
	if cfg.AI.Provider != ProviderAnthropic {
		t.Fatalf("unexpected provider: %s", cfg.AI.Provider)
	}
	if cfg.AI.Output != OutputStructured {
		t.Fatalf("unexpected output format: %s", cfg.AI.Output)
	}
	if cfg.AI.MaxTokens != 2048 {
		t.Fatalf("unexpected max tokens: %d", cfg.AI.MaxTokens)
	}
	if cfg.AI.Anthropic.Model != "claude-haiku-4-5-20251001" {
		t.Fatalf("unexpected model: %s", cfg.AI.Anthropic.Model)
	}
}

func TestLoadProductionSecuresCookie(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("COOKIE_SECURE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.Auth.SecureCookie {
		t.Fatal("expected secure cookie in production")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":             "80 80",
		"OUTPUT_FORMAT":    "html",
		"AI_PROVIDER":      "carrier-pigeon",
		"AI_MAX_TOKENS":    "lots",
		"SESSION_TTL_DAYS": "0",
		"COOKIE_SECURE":    "maybe",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestPortWithHost(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:8081")

	server, err := loadServerConfig()
	if err != nil {
		t.Fatalf("loadServerConfig err: %v", err)
	}
	if server.Addr != "127.0.0.1:8081" {
		t.Fatalf("unexpected addr: %s", server.Addr)
	}
}

func TestAIConfigEnabled(t *testing.T) {
	anthropic := AIConfig{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k", Model: "m"}}
	if !anthropic.Enabled() {
		t.Fatal("expected anthropic enabled")
	}

	ark := AIConfig{Provider: ProviderArk, Ark: ArkConfig{Model: "m", AccessKey: "ak"}}
	if ark.Enabled() {
		t.Fatal("expected ark disabled without secret key")
	}
	ark.Ark.SecretKey = "sk"
	if !ark.Enabled() {
		t.Fatal("expected ark enabled with AK/SK")
	}
}
