package es

import "github.com/elastic/go-elasticsearch/v8"

// ClientConfig carries the connection settings for the catalog index.
type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

// newClient builds the typed client the catalog runs on. Credentials are
// optional; local clusters come up without auth.
func newClient(cfg ClientConfig) (*elasticsearch.TypedClient, error) {
	config := elasticsearch.Config{Addresses: cfg.Addresses}
	if cfg.Username != "" && cfg.Password != "" {
		config.Username = cfg.Username
		config.Password = cfg.Password
	}
	return elasticsearch.NewTypedClient(config)
}
