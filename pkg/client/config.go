package client

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

const (
	// DefaultPort is the REST port of the appliance.
	DefaultPort = 8000

	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "nasrest-go"
)

// Config contains the connection settings of one appliance.
//
// Example configuration (HCL):
//
//	appliance {
//	  host       = "nas.example.com"
//	  port       = 8000
//	  username   = "admin"
//	  password   = env("NAS_PASSWORD")
//	  timeout    = "30s"
//	  tls_verify = false
//	}
type Config struct {
	// Host is the appliance address, a DNS name or an IP.
	Host string `json:"host"`

	// Port is the REST port.
	// Default: 8000
	Port int `json:"port"`

	// Scheme is "https" or "http".
	// Default: "https"
	Scheme string `json:"scheme"`

	// Timeout bounds each request unless overridden per call.
	// Default: 30 seconds
	Timeout time.Duration `json:"timeout"`

	// TLSVerify controls certificate verification. Appliances usually ship
	// with self-signed certificates.
	TLSVerify *bool `json:"tlsVerify,omitempty"`

	// Username and Password are used by Client.Authenticate.
	Username string `json:"username,omitempty"`
	Password string `json:"-"` // never marshalled

	// UserAgent overrides the User-Agent header.
	UserAgent string `json:"userAgent,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		Port:      DefaultPort,
		Scheme:    "https",
		Timeout:   DefaultTimeout,
		TLSVerify: &tlsVerify,
		UserAgent: DefaultUserAgent,
	}
}

// Validate checks that the configuration describes a reachable appliance.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required.Error("host is required")),
		validation.Field(&c.Port, validation.Min(0), validation.Max(65535)),
		validation.Field(&c.Scheme, validation.Required, validation.In("http", "https")),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return &resource.Error{Op: "Validate", Err: resource.ErrValidation, Msg: err.Error()}
	}
	return nil
}

// BaseURL returns scheme://host:port without a trailing slash.
func (c *Config) BaseURL() string {
	u := url.URL{
		Scheme: c.Scheme,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
	}
	return u.String()
}

// NewHTTPClient creates a configured HTTP client for the appliance.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	// Configure TLS verification
	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	// Request timeouts are enforced per call through the context.
	return &http.Client{
		Transport: transport,
	}
}

// withDefaults returns a copy of c with zero fields filled from
// DefaultConfig.
func (c *Config) withDefaults() *Config {
	out := *c
	d := DefaultConfig()
	if out.Port == 0 {
		out.Port = d.Port
	}
	if out.Scheme == "" {
		out.Scheme = d.Scheme
	}
	if out.Timeout == 0 {
		out.Timeout = d.Timeout
	}
	if out.TLSVerify == nil {
		out.TLSVerify = d.TLSVerify
	}
	if out.UserAgent == "" {
		out.UserAgent = d.UserAgent
	}
	return &out
}

func (c *Config) String() string {
	return fmt.Sprintf("%s (user %q)", c.BaseURL(), c.Username)
}
