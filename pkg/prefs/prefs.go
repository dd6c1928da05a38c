// Package prefs persists small client-side preferences: the last opened
// watch, per-watch seen counts and the dashboard theme.
package prefs

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const (
	keyLastWatch = "session-watch"
	keyTheme     = "session-theme"
	seenPrefix   = "seen-"
)

// Store is a diskv-backed key/value store rooted at a directory.
type Store struct {
	d *diskv.Diskv
}

// Open roots the store at basePath. The directory is created lazily on the
// first write.
func Open(basePath string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      64 * 1024,
	})}
}

// LastWatch returns the last opened watch, "" when none was recorded.
func (s *Store) LastWatch() string {
	return s.readString(keyLastWatch)
}

func (s *Store) SetLastWatch(name string) error {
	return s.write(keyLastWatch, name)
}

// SeenCount returns the ad count observed when watch was last loaded.
func (s *Store) SeenCount(watch string) int {
	n, err := strconv.Atoi(s.readString(seenKey(watch)))
	if err != nil {
		return 0
	}
	return n
}

func (s *Store) SetSeenCount(watch string, n int) error {
	return s.write(seenKey(watch), strconv.Itoa(n))
}

// Theme returns "dark" or "light" (the default).
func (s *Store) Theme() string {
	if s.readString(keyTheme) == "dark" {
		return "dark"
	}
	return "light"
}

func (s *Store) SetTheme(theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme != "dark" && theme != "light" {
		return fmt.Errorf("prefs: unknown theme %q", theme)
	}
	return s.write(keyTheme, theme)
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *Store) ToggleTheme() (string, error) {
	next := "dark"
	if s.Theme() == "dark" {
		next = "light"
	}
	return next, s.SetTheme(next)
}

// Watches lists every watch with a recorded seen count.
func (s *Store) Watches() []string {
	var out []string
	for key := range s.d.KeysPrefix(seenPrefix, nil) {
		raw, err := hex.DecodeString(strings.TrimPrefix(key, seenPrefix))
		if err != nil {
			continue
		}
		out = append(out, string(raw))
	}
	return out
}

func (s *Store) readString(key string) string {
	b, err := s.d.Read(key)
	if err != nil {
		return ""
	}
	return string(b)
}

func (s *Store) write(key, value string) error {
	if err := s.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("prefs: write %s: %w", key, err)
	}
	return nil
}

// Erase removes every stored preference.
func (s *Store) Erase() error {
	if err := s.d.EraseAll(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("prefs: erase: %w", err)
	}
	return nil
}

// Watch names may hold any character, so they are hex encoded into the
// file name.
func seenKey(watch string) string {
	return seenPrefix + hex.EncodeToString([]byte(watch))
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
