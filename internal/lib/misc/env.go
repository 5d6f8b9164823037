/*
 * Copyright (c) 2022. TxnLab Inc.
 * All Rights reserved.
 */

package misc

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
)

// LoadEnvSettings loads .env.local then .env from the working directory. Values already in the
// environment win; missing files are fine.
func LoadEnvSettings(logger *slog.Logger) {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			Warnf(logger, "unable to load %s: %v", name, err)
		}
	}
}

// LoadEnvFile loads an explicitly requested env file - a missing file is an error here.
func LoadEnvFile(logger *slog.Logger, name string) error {
	Infof(logger, "loading env file:%s", name)
	return godotenv.Load(name)
}
