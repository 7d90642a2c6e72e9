package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

const defaultServerURL = "http://localhost:8080"

// Config holds CLI configuration. Flags override the environment.
type Config struct {
	ServerURL string `env:"SEMGUESS_SERVER"`
	Token     string `env:"SEMGUESS_TOKEN"`
	TokenFile string `env:"SEMGUESS_TOKEN_FILE"`
	Output    string
	Verbose   bool
}

// DefaultConfig reads the client environment and fills in defaults
func DefaultConfig() *Config {
	c := &Config{Output: "text"}
	_ = env.Parse(c)
	if c.ServerURL == "" {
		c.ServerURL = defaultServerURL
	}
	if c.TokenFile == "" {
		c.TokenFile = defaultTokenFile()
	}
	return c
}

// LoadToken reads the token file unless a token was already given.
// A missing file is not an error.
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken makes token current and writes it to the token file
func (c *Config) SaveToken(token string) error {
	c.Token = token

	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token+"\n"), 0o600)
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".semguess", "token")
	}
	return filepath.Join(home, ".semguess", "token")
}
