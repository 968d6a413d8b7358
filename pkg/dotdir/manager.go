// Package dotdir resolves the .tokenbench/ directory that holds the
// persistent CLI configuration.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// dirName is the name of the tokenbench directory.
const dirName = ".tokenbench"

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .tokenbench/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.tokenbench/ dir
//  3. Home ~/.tokenbench/ dir
//  4. If none found, attempt to create ~/.tokenbench/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating tokenbench directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// localDirExists checks whether a .tokenbench/ directory exists in the
// current working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
