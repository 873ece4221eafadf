package cmd

import (
	"github.com/gravitrone/reqdesk/internal/api"
	"github.com/gravitrone/reqdesk/internal/config"
)

// NewClient builds an API client from cfg, falling back to the local
// devserver when no base URL is configured.
func NewClient(cfg *config.Config) *api.Client {
	if cfg == nil {
		return api.NewDefaultClient("")
	}
	if cfg.BaseURL == "" {
		return api.NewDefaultClient(cfg.APIKey)
	}
	return api.NewClient(cfg.BaseURL, cfg.APIKey)
}
