package util

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file if one is present. A missing file is not an
// error; deployed environments inject variables directly.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
