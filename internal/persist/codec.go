// Package persist serializes the store's binary snapshot to and from a
// size-bounded base64 slot on disk.
package persist

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// SlotName is the well-known file the encoded snapshot lives under, relative
// to the data directory.
const SlotName = "snapshot.b64"

// DefaultMaxEncodedBytes bounds the encoded snapshot size (5 MiB).
const DefaultMaxEncodedBytes = 5 << 20

// ErrSnapshotTooLarge reports that the dataset no longer fits the persistent
// slot. The stale slot is removed; in-memory use continues.
var ErrSnapshotTooLarge = errors.New("dataset too large to save")

// Codec reads and writes the persisted snapshot slot.
type Codec struct {
	dir             string
	maxEncodedBytes int64
	log             *logrus.Logger
}

// New returns a codec writing under dir. maxEncodedBytes <= 0 selects the
// default bound.
func New(dir string, maxEncodedBytes int64, log *logrus.Logger) *Codec {
	if maxEncodedBytes <= 0 {
		maxEncodedBytes = DefaultMaxEncodedBytes
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Codec{dir: dir, maxEncodedBytes: maxEncodedBytes, log: log}
}

// SlotPath returns the full path of the snapshot slot.
func (c *Codec) SlotPath() string {
	return filepath.Join(c.dir, SlotName)
}

// Save encodes the database file at dbPath into the slot. If the estimated
// encoded size exceeds the bound, any stale slot is removed and
// ErrSnapshotTooLarge is returned instead of writing a truncated value.
func (c *Codec) Save(dbPath string) error {
	raw, err := os.ReadFile(dbPath)
	if err != nil {
		return fmt.Errorf("reading store file: %w", err)
	}

	if encoded := base64.StdEncoding.EncodedLen(len(raw)); int64(encoded) > c.maxEncodedBytes {
		c.log.WithFields(logrus.Fields{
			"encoded_bytes": encoded,
			"max_bytes":     c.maxEncodedBytes,
		}).Warn("snapshot exceeds slot bound, removing stale slot")
		_ = os.Remove(c.SlotPath())
		return ErrSnapshotTooLarge
	}

	if err := os.MkdirAll(c.dir, 0o750); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	tmp := c.SlotPath() + ".tmp"
	encoded := base64.StdEncoding.EncodeToString(raw)
	if err := os.WriteFile(tmp, []byte(encoded), 0o600); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, c.SlotPath()); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publishing snapshot: %w", err)
	}
	return nil
}

// Restore decodes the slot into dbPath. A missing or corrupt slot is not an
// error: it reports restored=false and the caller starts from a fresh store.
func (c *Codec) Restore(dbPath string) (restored bool, err error) {
	encoded, err := os.ReadFile(c.SlotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		c.log.WithError(err).Warn("snapshot slot unreadable, starting fresh")
		return false, nil
	}

	raw, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		c.log.WithError(err).Warn("snapshot slot corrupt, starting fresh")
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return false, fmt.Errorf("creating data dir: %w", err)
	}
	if err := os.WriteFile(dbPath, raw, 0o600); err != nil {
		return false, fmt.Errorf("restoring store file: %w", err)
	}
	return true, nil
}

// Clear removes the persisted slot.
func (c *Codec) Clear() error {
	err := os.Remove(c.SlotPath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing snapshot: %w", err)
	}
	return nil
}
