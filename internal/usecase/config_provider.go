package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/harryfittheorem/CKOWebsite/internal/config"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/entity"
	domainErrors "github.com/harryfittheorem/CKOWebsite/internal/domain/errors"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	pkgconfig "github.com/harryfittheorem/CKOWebsite/pkg/config"
	"go.uber.org/zap"
)

// ConfigProvider loads ClubReady credentials. It is called once per request
// and does not cache.
type ConfigProvider interface {
	GetConfig(ctx context.Context) (entity.ClubReadyCredentials, error)
}

// Environment keys read by the env provider, relative to the CLUBREADY_
// prefix
const (
	envPrefix  = "clubready"
	envAPIKey  = "api.key"
	envStoreID = "store.id"
	envChainID = "chain.id"
	envAPIURL  = "api.url"
)

type databaseConfigProvider struct {
	repo   repository.ClubReadyConfigRepository
	logger *zap.Logger
}

// NewDatabaseConfigProvider reads the clubready_config row
func NewDatabaseConfigProvider(repo repository.ClubReadyConfigRepository, logger *zap.Logger) ConfigProvider {
	return &databaseConfigProvider{repo: repo, logger: logger}
}

func (p *databaseConfigProvider) GetConfig(ctx context.Context) (entity.ClubReadyCredentials, error) {
	row, err := p.repo.Get(ctx)
	if err != nil {
		p.logger.Error("Failed to load ClubReady configuration", zap.Error(err))
		return entity.ClubReadyCredentials{}, domainErrors.NewConfigurationMissingError(err)
	}
	if row == nil {
		return entity.ClubReadyCredentials{}, domainErrors.NewConfigurationMissingError(nil)
	}

	return complete(entity.ClubReadyCredentials{
		APIKey:  strings.TrimSpace(row.APIKey),
		StoreID: strings.TrimSpace(row.StoreID),
		ChainID: strings.TrimSpace(row.ChainID),
		BaseURL: strings.TrimSpace(row.APIURL),
	})
}

type envConfigProvider struct {
	env pkgconfig.Config
}

// NewEnvConfigProvider reads CLUBREADY_API_KEY, CLUBREADY_STORE_ID,
// CLUBREADY_CHAIN_ID and CLUBREADY_API_URL
func NewEnvConfigProvider(env pkgconfig.Config) ConfigProvider {
	return &envConfigProvider{env: env}
}

// NewEnvConfigProviderFromProcess binds the provider to the process
// environment
func NewEnvConfigProviderFromProcess() ConfigProvider {
	return NewEnvConfigProvider(pkgconfig.FromEnv(envPrefix, envAPIKey, envStoreID, envChainID, envAPIURL))
}

func (p *envConfigProvider) GetConfig(ctx context.Context) (entity.ClubReadyCredentials, error) {
	return complete(entity.ClubReadyCredentials{
		APIKey:  strings.TrimSpace(p.env.GetString(envAPIKey)),
		StoreID: strings.TrimSpace(p.env.GetString(envStoreID)),
		ChainID: strings.TrimSpace(p.env.GetString(envChainID)),
		BaseURL: strings.TrimSpace(p.env.GetString(envAPIURL)),
	})
}

// complete treats any empty field as a missing configuration
func complete(creds entity.ClubReadyCredentials) (entity.ClubReadyCredentials, error) {
	if !creds.Complete() {
		return entity.ClubReadyCredentials{}, domainErrors.NewConfigurationMissingError(nil)
	}
	return creds, nil
}

// NewConfigProvider picks the credential source named in the service
// config
func NewConfigProvider(source string, repo repository.ClubReadyConfigRepository, logger *zap.Logger) (ConfigProvider, error) {
	switch source {
	case "", config.ConfigSourceDatabase:
		return NewDatabaseConfigProvider(repo, logger), nil
	case config.ConfigSourceEnv:
		return NewEnvConfigProviderFromProcess(), nil
	default:
		return nil, fmt.Errorf("unsupported clubready config source: %s", source)
	}
}
