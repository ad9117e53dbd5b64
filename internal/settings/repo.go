// Package settings stores the user-tunable generation preferences in Redis.
// API keys stay in the environment and are never persisted or echoed here.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const settingsKey = "copilot:settings"

// Settings are the generation preferences applied when a request does not
// name a provider or model explicitly.
type Settings struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Theme    string `json:"theme"`
}

func Defaults() Settings {
	return Settings{Provider: "openai", Model: "gpt-4o", Theme: "system"}
}

var validProviders = map[string]bool{
	"openai":     true,
	"groq":       true,
	"openrouter": true,
}

func (s Settings) Validate() error {
	if !validProviders[s.Provider] {
		return fmt.Errorf("unsupported provider %q", s.Provider)
	}
	if s.Model == "" {
		return fmt.Errorf("model required")
	}
	return nil
}

// Repo persists settings under a single Redis key.
type Repo struct {
	client *redis.Client
}

func NewRepo(client *redis.Client) *Repo {
	return &Repo{client: client}
}

// Get returns the stored settings, or the defaults when nothing was saved.
func (r *Repo) Get(ctx context.Context) (Settings, error) {
	raw, err := r.client.Get(ctx, settingsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Defaults(), nil
		}
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

func (r *Repo) Put(ctx context.Context, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := r.client.Set(ctx, settingsKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
