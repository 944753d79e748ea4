// Package runtimepath locates per-user runtime files such as the IPC socket.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const socketName = "winshell.sock"

// Dir returns the per-user runtime directory: $XDG_RUNTIME_DIR, then
// /run/user/<uid>, then a private directory under the system temp dir.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}
	return privateTempDir(fmt.Sprintf("winshell-runtime-%d", uid))
}

// SocketPath returns the shell IPC socket path. WINSHELL_SOCKET overrides it.
func SocketPath() (string, error) {
	if path := os.Getenv("WINSHELL_SOCKET"); path != "" {
		return path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// privateTempDir creates name under the temp dir with mode 0700. An existing
// symlink in its place is rejected.
func privateTempDir(name string) (string, error) {
	dir := filepath.Join(os.TempDir(), name)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	info, err := os.Lstat(dir)
	if err != nil {
		return "", fmt.Errorf("failed to inspect runtime dir: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("runtime dir %s is not a directory", dir)
	}
	if info.Mode().Perm() != 0700 {
		if err := os.Chmod(dir, 0700); err != nil {
			return "", fmt.Errorf("failed to restrict runtime dir: %w", err)
		}
	}
	return dir, nil
}
