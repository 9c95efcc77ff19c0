package provider

import (
	"fmt"

	"github.com/harryfittheorem/CKOWebsite/internal/config"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/provider"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	"github.com/harryfittheorem/CKOWebsite/internal/infrastructure/provider/clubready"
	"github.com/harryfittheorem/CKOWebsite/internal/usecase"
	"go.uber.org/zap"
)

// Factory builds the outbound CRM client and its credential source from
// the service config
type Factory struct {
	config *config.Config
	logger *zap.Logger
}

// NewFactory creates a new provider factory
func NewFactory(config *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// CRMClient returns the ClubReady client with the configured timeout
func (f *Factory) CRMClient() provider.CRMClient {
	return clubready.NewClient(f.config.ClubReady.Timeout, f.logger.Named("clubready"))
}

// ConfigProvider returns the credential source named by
// clubready.config_source
func (f *Factory) ConfigProvider(repo repository.ClubReadyConfigRepository) (usecase.ConfigProvider, error) {
	p, err := usecase.NewConfigProvider(f.config.ClubReady.ConfigSource, repo, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create config provider: %w", err)
	}

	f.logger.Info("ClubReady credential source selected",
		zap.String("source", f.config.ClubReady.ConfigSource),
		zap.Duration("timeout", f.config.ClubReady.Timeout))

	return p, nil
}
