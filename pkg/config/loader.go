package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache holds one parsed value per config type. Failed parses are not
// cached, so a later Load retries.
var cache = struct {
	sync.Mutex
	values map[reflect.Type]any
}{values: make(map[reflect.Type]any)}

var dotenvOnce sync.Once

// Load fills v from the environment and caches the result per type; later
// calls for the same type return the cached copy. The first call also
// loads .env from the working directory if one exists.
//
//	var cfg session.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	dotenvOnce.Do(func() { _ = godotenv.Load() })
	if v == nil {
		return ErrNilPointer
	}

	key := reflect.TypeFor[T]()

	cache.Lock()
	defer cache.Unlock()

	if cached, ok := cache.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	cache.values[key] = parsed
	*v = parsed
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

// ResetCache drops every cached configuration.
func ResetCache() {
	cache.Lock()
	defer cache.Unlock()
	clear(cache.values)
}

// ForceReloadConfig parses the environment into v and replaces the cached
// value for its type.
func ForceReloadConfig[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	cache.Lock()
	delete(cache.values, reflect.TypeFor[T]())
	cache.Unlock()

	return Load(v)
}
