package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// BackendPaths are the auth endpoints of the cinema backend, relative to BaseURL
type BackendPaths struct {
	Login    string
	Logout   string
	Refresh  string
	Profile  string
	Status   string
	Register string
}

type BackendConfig struct {
	BaseURL               *url.URL
	TimeoutSeconds        int
	RefreshTimeoutSeconds int
	// APIBasePath is where the gateway exposes the backend to the browser
	APIBasePath string
	Paths       BackendPaths
	AdminRoleID int
}

func (c BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c BackendConfig) RefreshTimeout() time.Duration {
	return time.Duration(c.RefreshTimeoutSeconds) * time.Second
}

func (c *BackendConfig) Validate() error {
	if c.BaseURL == nil {
		return fmt.Errorf("the backend config is missing the base url of the cinema API")
	}
	if c.BaseURL.Scheme != "http" && c.BaseURL.Scheme != "https" {
		return fmt.Errorf("the backend base url has an unsupported scheme %q", c.BaseURL.Scheme)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("backend timeout seconds (%d) needs to be greater than 0", c.TimeoutSeconds)
	}
	if c.RefreshTimeoutSeconds <= 0 {
		return fmt.Errorf("backend refresh timeout seconds (%d) needs to be greater than 0", c.RefreshTimeoutSeconds)
	}
	if !strings.HasPrefix(c.APIBasePath, "/") {
		return fmt.Errorf("the API base path %q has to start with a slash", c.APIBasePath)
	}
	paths := map[string]string{
		"login":    c.Paths.Login,
		"logout":   c.Paths.Logout,
		"refresh":  c.Paths.Refresh,
		"profile":  c.Paths.Profile,
		"status":   c.Paths.Status,
		"register": c.Paths.Register,
	}
	for name, path := range paths {
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("the backend %s path %q has to start with a slash", name, path)
		}
	}
	return nil
}
