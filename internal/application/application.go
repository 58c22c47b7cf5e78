// Package application holds application-wide constants and the per-user
// configuration directory lookup.
package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// AppName is the application name used for directories and identification
const AppName = "slackctl"

var (
	once   sync.Once
	appDir string
	errDir error
)

// GetApplicationDirectory returns the slackctl configuration directory path,
// creating it with owner-only permissions if absent. The directory holds live
// credentials, so it must never be group- or world-accessible.
// Linux: ~/.config/slackctl (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\slackctl (via os.UserCacheDir)
func GetApplicationDirectory() (string, error) {
	once.Do(lazyLoad)

	if errDir != nil {
		return "", errDir
	}

	return appDir, errDir
}

func lazyLoad() {
	var (
		baseDir string
		err     error
	)

	switch runtime.GOOS {
	case "windows":
		baseDir, err = os.UserCacheDir()
	default:
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		errDir = fmt.Errorf("failed to determine user config directory: %w", err)
		return
	}

	appDir = filepath.Join(baseDir, AppName)

	if err := os.MkdirAll(appDir, 0700); err != nil {
		errDir = fmt.Errorf("failed to create application directory %s: %w", appDir, err)
		return
	}
}
