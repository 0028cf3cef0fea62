package storage

import (
	"fmt"
	"os"
	"sync"
)

// Storage key prefixes. A product's download pointer stores keys under
// the programs prefix; slips and images are uploaded through the server.
const (
	PrefixImages   = "images"
	PrefixSlips    = "slips"
	PrefixPrograms = "programs"
)

var (
	globalConfig     *SpacesConfig
	globalConfigOnce sync.Once
	globalConfigErr  error
)

// GetGlobalConfig returns the Spaces configuration from the environment.
// Safe to call multiple times; it only initializes once.
func GetGlobalConfig() (*SpacesConfig, error) {
	globalConfigOnce.Do(func() {
		globalConfig, globalConfigErr = initGlobalConfig()
	})
	return globalConfig, globalConfigErr
}

func initGlobalConfig() (*SpacesConfig, error) {
	config := &SpacesConfig{
		AccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SecretKey: os.Getenv("SPACES_SECRET_KEY"),
		Bucket:    os.Getenv("SPACES_BUCKET"),
		Region:    os.Getenv("SPACES_REGION"),
		Endpoint:  os.Getenv("SPACES_ENDPOINT"),
		CDNURL:    os.Getenv("SPACES_CDN_ENDPOINT"),
	}

	if config.Bucket == "" || config.Region == "" {
		return nil, fmt.Errorf("SPACES_BUCKET and SPACES_REGION must be configured")
	}

	if config.AccessKey == "" || config.SecretKey == "" {
		return nil, fmt.Errorf("SPACES_ACCESS_KEY and SPACES_SECRET_KEY must be configured")
	}

	// Default endpoint without https:// prefix for URL construction
	if config.Endpoint == "" {
		config.Endpoint = fmt.Sprintf("%s.digitaloceanspaces.com", config.Region)
	}

	return config, nil
}
