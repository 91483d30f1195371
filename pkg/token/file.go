package token

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

const base64Prefix = "base64:"

type secretsFile struct {
	Secrets []string `yaml:"secrets"`
}

// LoadSecretsFile reads a YAML keyring:
//
//	secrets:
//	  - base64:3q2+7w...   # newest, signs
//	  - an-older-raw-text-secret-of-32-or-more-bytes
//
// Entries prefixed with "base64:" are decoded with standard encoding, all
// others are used as raw bytes.
func LoadSecretsFile(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidSecretsFile, err)
	}
	return ParseSecrets(data)
}

// ParseSecrets decodes the YAML keyring format read by LoadSecretsFile.
func ParseSecrets(data []byte) ([][]byte, error) {
	var f secretsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Join(ErrInvalidSecretsFile, err)
	}
	if len(f.Secrets) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSecretsFile, ErrNoSecrets)
	}

	out := make([][]byte, 0, len(f.Secrets))
	for i, entry := range f.Secrets {
		secret, err := decodeSecret(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidSecretsFile, i, err)
		}
		out = append(out, secret)
	}
	return out, nil
}

func decodeSecret(entry string) ([]byte, error) {
	entry = strings.TrimSpace(entry)
	if encoded, ok := strings.CutPrefix(entry, base64Prefix); ok {
		return base64.StdEncoding.DecodeString(encoded)
	}
	return []byte(entry), nil
}

// WatchSecretsFile reloads path whenever it changes and rotates signer to
// the new secrets. A file that fails to parse is logged and the current
// secrets stay active. The watch stops when ctx is done.
func WatchSecretsFile(ctx context.Context, path string, signer *Signer, log *slog.Logger) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory, not the file, to catch editor renames and
	// Kubernetes secret symlink swaps. A swap replaces ..data, so the
	// target is re-resolved on every directory change.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return err
	}

	target := filepath.Clean(path)
	resolved, _ := filepath.EvalSymlinks(path)

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
					continue
				}
				current, err := filepath.EvalSymlinks(path)
				if err != nil {
					continue
				}
				direct := filepath.Clean(event.Name) == target &&
					(event.Has(fsnotify.Write) || event.Has(fsnotify.Create))
				if !direct && current == resolved {
					continue
				}
				resolved = current
				reload(path, signer, log)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Error("secrets watcher error", logger.Error(err))
			}
		}
	}()

	return nil
}

func reload(path string, signer *Signer, log *slog.Logger) {
	secrets, err := LoadSecretsFile(path)
	if err == nil {
		err = signer.Rotate(secrets)
	}
	if err != nil {
		log.Warn("keeping current signing secrets", logger.File(path), logger.Error(err))
		return
	}
	log.Info("signing secrets reloaded", logger.File(path), logger.Keys(signer.KeyCount()))
}
