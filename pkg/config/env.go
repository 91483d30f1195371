package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
)

// LoadEnv loads the given .env files into the process environment. Later
// files override earlier ones and both override variables already set.
// Without arguments it loads ".env" from the working directory.
func LoadEnv(paths ...string) error {
	if err := godotenv.Overload(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv works like LoadEnv but panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("Failed to load env files: %v", err))
	}
}
