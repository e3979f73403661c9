package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	get "github.com/hashicorp/go-getter"
)

// IsRemote reports whether src names something go-getter has to download,
// such as "https://host/world.yaml" or "s3::https://bucket/world.toml".
func IsRemote(src string) bool {
	return strings.Contains(src, "://") || strings.Contains(src, "::")
}

// Fetch downloads a remote configuration file into dir and returns the local
// path. Local paths are returned unchanged. The file name is kept so Load can
// still pick the decoder by extension.
func Fetch(ctx context.Context, src, dir string) (string, error) {
	if !IsRemote(src) {
		return src, nil
	}
	if dir == "" {
		return "", fmt.Errorf("fetch config: destination directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	dst := filepath.Join(dir, remoteName(src))
	if err := get.GetFile(dst, src, get.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("fetch config %s: %w", src, err)
	}
	return dst, nil
}

func remoteName(src string) string {
	raw := src
	if idx := strings.LastIndex(raw, "::"); idx >= 0 {
		raw = raw[idx+2:]
	}
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		raw = u.Path
	}
	if idx := strings.Index(raw, "//"); idx > 0 {
		raw = raw[idx+2:]
	}
	name := path.Base(raw)
	if name == "." || name == "/" || name == "" {
		return "config.json"
	}
	return name
}
