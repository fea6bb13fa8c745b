package client

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(Unconfigure)

	_, err := Default()
	require.ErrorIs(t, err, resource.ErrConfig)

	c, err := Configure(&Config{Host: "nas.example.com"})
	require.NoError(t, err)

	got, err := Default()
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = Configure(&Config{Host: "other.example.com"})
	require.ErrorIs(t, err, resource.ErrConfig)

	got, err = Default()
	require.NoError(t, err)
	assert.Same(t, c, got)

	Unconfigure()
	_, err = Default()
	require.ErrorIs(t, err, resource.ErrConfig)

	_, err = Configure(&Config{Host: "other.example.com"})
	assert.NoError(t, err)
}

func TestConfigure_InvalidConfigLeavesUnconfigured(t *testing.T) {
	t.Cleanup(Unconfigure)

	_, err := Configure(&Config{Port: -1})
	require.ErrorIs(t, err, resource.ErrValidation)

	_, err = Default()
	assert.ErrorIs(t, err, resource.ErrConfig)
}

func TestConfigure_Concurrent(t *testing.T) {
	t.Cleanup(Unconfigure)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Configure(&Config{Host: "nas.example.com"}); err == nil {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, won)
}
