package kroger

import "time"

const DefaultAPIBase = "https://api.kroger.com/v1"

// Config is loaded with the KROGER prefix (KROGER_CLIENT_ID, KROGER_CLIENT_SECRET, ...).
// Credentials are optional at load time: without them every token request
// fails soft and the client returns no results.
type Config struct {
	ClientID     string        `envconfig:"CLIENT_ID"`
	ClientSecret string        `envconfig:"CLIENT_SECRET"`
	APIBase      string        `envconfig:"API_BASE" default:"https://api.kroger.com/v1"`
	Scope        string        `split_words:"true" default:"product.compact"`
	Timeout      time.Duration `split_words:"true" default:"15s"`
}

func (c Config) hasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
