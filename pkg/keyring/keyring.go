package keyring

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"nakula/pkg/core"
)

// KeyRing holds several API key pairs and picks the one used for the next
// request. Safe for concurrent use.
type KeyRing struct {
	mu       sync.RWMutex
	keys     []*APIKey
	current  int
	strategy RotationStrategy
	logger   zerolog.Logger
}

type APIKey struct {
	ID         string
	Key        string
	Secret     string
	Disabled   bool
	LastUsed   time.Time
	ErrorCount int
}

type RotationStrategy int

const (
	// RotationRoundRobin moves to the next key after every use.
	RotationRoundRobin RotationStrategy = iota
	// RotationOnError moves to the next key after any failed request.
	RotationOnError
	// RotationOnRateLimit moves to the next key when a request is rate limited.
	RotationOnRateLimit
)

func NewKeyRing(keys []*APIKey, strategy RotationStrategy) *KeyRing {
	keysCopy := make([]*APIKey, len(keys))
	for i, k := range keys {
		cp := *k
		keysCopy[i] = &cp
	}

	return &KeyRing{
		keys:     keysCopy,
		strategy: strategy,
		logger:   zerolog.Nop(),
	}
}

// FromCredentials builds a single-key ring.
func FromCredentials(creds core.Credentials) *KeyRing {
	return NewKeyRing([]*APIKey{{ID: "default", Key: creds.APIKey, Secret: creds.SecretKey}}, RotationOnError)
}

func (k *KeyRing) SetLogger(logger zerolog.Logger) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.logger = logger
}

func (k *KeyRing) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys)
}

// Current returns the active key, skipping disabled ones, or nil.
func (k *KeyRing) Current() *APIKey {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if idx := k.activeLocked(); idx >= 0 {
		return k.keys[idx]
	}
	return nil
}

func (k *KeyRing) activeLocked() int {
	for i := 0; i < len(k.keys); i++ {
		idx := (k.current + i) % len(k.keys)
		if !k.keys[idx].Disabled {
			return idx
		}
	}
	return -1
}

// Credentials returns the active key pair for signing.
func (k *KeyRing) Credentials() (core.Credentials, error) {
	key := k.Current()
	if key == nil {
		return core.Credentials{}, core.ErrNoCredentials
	}
	return core.Credentials{APIKey: key.Key, SecretKey: key.Secret}, nil
}

func (k *KeyRing) Rotate() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.rotateLocked()
}

func (k *KeyRing) rotateLocked() {
	if len(k.keys) == 0 {
		return
	}

	start := k.current
	for {
		k.current = (k.current + 1) % len(k.keys)
		if !k.keys[k.current].Disabled || k.current == start {
			return
		}
	}
}

// OnError records a failed request against the active key and rotates
// according to the strategy.
func (k *KeyRing) OnError(err error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	idx := k.activeLocked()
	if idx < 0 {
		return
	}
	k.current = idx
	k.keys[idx].ErrorCount++

	rotate := false
	switch k.strategy {
	case RotationOnError:
		rotate = true
	case RotationOnRateLimit:
		rotate = core.IsRateLimitError(err)
	}
	if rotate && len(k.keys) > 1 {
		k.rotateLocked()
		k.logger.Warn().
			Err(err).
			Str("from", k.keys[idx].ID).
			Str("to", k.keys[k.current].ID).
			Msg("rotated api key")
	}
}

// MarkUsed stamps the active key and, for round robin, moves to the next one.
func (k *KeyRing) MarkUsed() {
	k.mu.Lock()
	defer k.mu.Unlock()

	idx := k.activeLocked()
	if idx < 0 {
		return
	}
	k.keys[idx].LastUsed = time.Now()
	if k.strategy == RotationRoundRobin {
		k.current = idx
		k.rotateLocked()
	}
}

func (k *KeyRing) Disable(id string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, key := range k.keys {
		if key.ID == id {
			key.Disabled = true
			return
		}
	}
}

func (k *KeyRing) Enable(id string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, key := range k.keys {
		if key.ID == id {
			key.Disabled = false
			key.ErrorCount = 0
			return
		}
	}
}

func (k *KeyRing) Add(key *APIKey) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, existing := range k.keys {
		if existing.ID == key.ID {
			return
		}
	}

	k.keys = append(k.keys, &APIKey{
		ID:     key.ID,
		Key:    key.Key,
		Secret: key.Secret,
	})
}

func (k *KeyRing) Remove(id string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for i, key := range k.keys {
		if key.ID == id {
			k.keys = append(k.keys[:i], k.keys[i+1:]...)
			if k.current >= len(k.keys) {
				k.current = 0
			}
			return
		}
	}
}

func (k *APIKey) String() string {
	return fmt.Sprintf("APIKey{ID:%s, Key:%s}", k.ID, MaskKey(k.Key))
}

// MaskKey hides all but the first and last four characters.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
