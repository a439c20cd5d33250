package whack

import (
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-whack/internal/core"
)

// KV is the persisted key/value capability the best score lives in.
// Implementations may fail; BestScore never lets a failure reach game logic.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// BestScore keeps the highest score reached and mirrors it to a KV store on a
// best-effort basis. A nil store keeps the score in memory only.
type BestScore struct {
	store  KV
	key    string
	value  int
	logger *log.Logger
}

// LoadBestScore reads the best score once. A missing, unreadable, negative or
// non-numeric entry loads as 0.
func LoadBestScore(store KV, key string, logger *log.Logger) *BestScore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	b := &BestScore{store: store, key: key, logger: logger}
	if store == nil {
		return b
	}

	raw, ok, err := store.Get(key)
	if err != nil {
		logger.Debug("best score read failed", "key", key, "err", err)
		return b
	}
	if ok {
		b.value = parseBest(raw)
	}
	return b
}

// OwnerKey returns the store key for owner's best score. Local play uses the
// base key unchanged so existing saves keep working.
func OwnerKey(base, owner string) string {
	if owner == "" || owner == core.LocalOwner {
		return base
	}
	return base + ":" + owner
}

func parseBest(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Value returns the in-memory best score.
func (b *BestScore) Value() int {
	return b.value
}

// Key returns the store key.
func (b *BestScore) Key() string {
	return b.key
}

// Reconcile raises the best score to score if it is higher and persists the
// new value. It reports whether the best score changed.
func (b *BestScore) Reconcile(score int) bool {
	next := ReconcileBest(score, b.value)
	if next == b.value {
		return false
	}
	b.value = next
	if b.store != nil {
		if err := b.store.Set(b.key, strconv.Itoa(next)); err != nil {
			b.logger.Debug("best score write dropped", "key", b.key, "value", next, "err", err)
		}
	}
	return true
}

// Clear resets the best score and removes the persisted entry.
func (b *BestScore) Clear() {
	b.value = ClearBest()
	if b.store != nil {
		if err := b.store.Remove(b.key); err != nil {
			b.logger.Debug("best score remove dropped", "key", b.key, "err", err)
		}
	}
}
