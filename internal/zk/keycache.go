package zk

import (
	"fmt"
	"os"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"golang.org/x/sync/singleflight"
)

// KeyCache owns the lazily-loaded verification key. The key is read from disk
// at most once per process; concurrent first callers converge on a single
// in-flight load. A failed load is returned to every waiter and retried on
// the next call rather than cached.
type KeyCache struct {
	path string

	group singleflight.Group
	mu    sync.RWMutex
	vk    groth16.VerifyingKey
}

// NewKeyCache creates a cache for the verification key at the given path.
func NewKeyCache(path string) *KeyCache {
	return &KeyCache{path: path}
}

// GetOrLoad returns the cached verification key, loading it on first use.
func (c *KeyCache) GetOrLoad() (groth16.VerifyingKey, error) {
	c.mu.RLock()
	vk := c.vk
	c.mu.RUnlock()
	if vk != nil {
		return vk, nil
	}

	loaded, err, _ := c.group.Do("vk", func() (any, error) {
		// Re-check under the group: a concurrent load may have finished.
		c.mu.RLock()
		cached := c.vk
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		f, err := os.Open(c.path)
		if err != nil {
			return nil, fmt.Errorf("open verification key %s: %w", c.path, err)
		}
		defer f.Close()

		vk := groth16.NewVerifyingKey(ecc.BN254)
		if _, err := vk.ReadFrom(f); err != nil {
			return nil, fmt.Errorf("read verification key %s: %w", c.path, err)
		}

		c.mu.Lock()
		c.vk = vk
		c.mu.Unlock()
		return vk, nil
	})
	if err != nil {
		return nil, err
	}
	return loaded.(groth16.VerifyingKey), nil
}

// Health reports whether the verification key can be served.
func (c *KeyCache) Health() error {
	_, err := c.GetOrLoad()
	return err
}
