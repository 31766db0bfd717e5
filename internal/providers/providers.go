package providers

import (
	"context"

	"github.com/lehigh-university-libraries/ocrchat/internal/models"
)

// Config represents the configuration for a single chat completion
type Config struct {
	Model       string
	Temperature float64
	Messages    []models.Message
}

// Provider defines the interface for a chat completion backend
type Provider interface {
	Chat(ctx context.Context, config Config) (string, error)
}
