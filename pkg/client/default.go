package client

import (
	"sync"
	"sync/atomic"

	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

// configureMu serializes Configure and Unconfigure so a check-then-store is
// never interleaved.
var configureMu sync.Mutex

// defaultClient is the process-wide client. Readers load it without locking.
var defaultClient atomic.Pointer[Client]

// Configure builds the process-wide default client. It fails with ErrConfig
// if a default client is already configured; call Unconfigure first.
//
// Resource verbs never consult the default client on their own; pass the
// result of Default to them.
func Configure(cfg *Config, opts ...Option) (*Client, error) {
	configureMu.Lock()
	defer configureMu.Unlock()

	if defaultClient.Load() != nil {
		return nil, &resource.Error{Op: "Configure", Err: resource.ErrConfig, Msg: "default client already configured"}
	}
	c, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	defaultClient.Store(c)
	return c, nil
}

// Unconfigure drops the process-wide default client. It is a no-op when none
// is configured.
func Unconfigure() {
	configureMu.Lock()
	defer configureMu.Unlock()
	defaultClient.Store(nil)
}

// Default returns the process-wide client, or ErrConfig if Configure has not
// been called.
func Default() (*Client, error) {
	c := defaultClient.Load()
	if c == nil {
		return nil, &resource.Error{Op: "Default", Err: resource.ErrConfig, Msg: "no default client configured"}
	}
	return c, nil
}
