package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "https", cfg.Scheme)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	require.NotNil(t, cfg.TLSVerify)
	assert.True(t, *cfg.TLSVerify)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty host", mutate: func(c *Config) { c.Host = "" }, wantErr: "host is required"},
		{name: "negative port", mutate: func(c *Config) { c.Port = -1 }, wantErr: "port"},
		{name: "port too large", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "port"},
		{name: "bad scheme", mutate: func(c *Config) { c.Scheme = "ftp" }, wantErr: "scheme"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Host = "nas.example.com"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, resource.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_BaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "nas.example.com"
	assert.Equal(t, "https://nas.example.com:8000", cfg.BaseURL())

	cfg.Host = "::1"
	cfg.Scheme = "http"
	cfg.Port = 8080
	assert.Equal(t, "http://[::1]:8080", cfg.BaseURL())
}

func TestConfig_NewHTTPClient(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 5 * time.Second

	hc := cfg.NewHTTPClient()
	assert.Zero(t, hc.Timeout)
	assert.Nil(t, hc.Transport.(*http.Transport).TLSClientConfig)

	insecure := false
	cfg.TLSVerify = &insecure
	hc = cfg.NewHTTPClient()
	require.NotNil(t, hc.Transport.(*http.Transport).TLSClientConfig)
	assert.True(t, hc.Transport.(*http.Transport).TLSClientConfig.InsecureSkipVerify)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("NAS_TEST_PASSWORD", "s3cret")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/nasctl/config.hcl", []byte(`
appliance {
  host       = "nas.example.com"
  username   = "admin"
  password   = env("NAS_TEST_PASSWORD")
  timeout    = "45s"
  tls_verify = false
}
`), 0o600))

	cfg, err := LoadConfigFile(fs, "/etc/nasctl/config.hcl")
	require.NoError(t, err)

	assert.Equal(t, "nas.example.com", cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "https", cfg.Scheme)
	assert.Equal(t, "admin", cfg.Username)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	require.NotNil(t, cfg.TLSVerify)
	assert.False(t, *cfg.TLSVerify)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/no-block.hcl":    `other {}`,
		"/bad-syntax.hcl":  `appliance {`,
		"/bad-timeout.hcl": "appliance {\n  host    = \"nas\"\n  timeout = \"soon\"\n}\n",
		"/empty-host.hcl":  `appliance { host = "" }`,
		"/bad-port.hcl":    "appliance {\n  host = \"nas\"\n  port = 99999\n}\n",
	}
	for name, src := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(src), 0o600))
	}

	tests := []struct {
		path string
		want error
	}{
		{path: "", want: resource.ErrConfig},
		{path: "/missing.hcl", want: resource.ErrConfig},
		{path: "/no-block.hcl", want: resource.ErrConfig},
		{path: "/bad-syntax.hcl", want: resource.ErrConfig},
		{path: "/bad-timeout.hcl", want: resource.ErrValidation},
		{path: "/empty-host.hcl", want: resource.ErrValidation},
		{path: "/bad-port.hcl", want: resource.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := LoadConfigFile(fs, tt.path)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
