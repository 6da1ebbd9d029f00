package config

import (
	"os"
	"path/filepath"
)

const AppName = "boarcoin"

func AppDir() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, "."+AppName)
}

func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yml")
}

func LogDir() string {
	return filepath.Join(AppDir(), "logs")
}
