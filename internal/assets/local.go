package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes files beneath Root and serves them from BaseURL.
type LocalStore struct {
	Root    string
	BaseURL string
}

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &LocalStore{Root: root, BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalStore) Put(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	destPath := filepath.Join(s.Root, filepath.FromSlash(key))
	if !strings.HasPrefix(destPath, filepath.Clean(s.Root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("key %q escapes media root", key)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return "", err
	}

	dst, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, body); err != nil {
		dst.Close()
		os.Remove(destPath)
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("close %s: %w", key, err)
	}
	return s.BaseURL + "/" + key, nil
}
