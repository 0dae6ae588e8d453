// Package assets stores uploaded images (logos, player photos) and returns their public URL.
package assets

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type Kind string

const (
	TournamentLogo Kind = "tournament_logos"
	TeamLogo       Kind = "team_logos"
	PlayerPhoto    Kind = "player_photos"
)

func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case TournamentLogo, TeamLogo, PlayerPhoto:
		return k, true
	}
	return "", false
}

type Store interface {
	// Put writes the object under key and returns the URL clients should use to fetch it.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

var allowedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Extension returns the file extension for an accepted image content type.
func Extension(contentType string) (string, bool) {
	ext, ok := allowedTypes[strings.ToLower(contentType)]
	return ext, ok
}

// Key builds a collision-free object key such as "team_logos/los-tigres-<uuid>.png".
func Key(kind Kind, filename, ext string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	name := slug.Make(base)
	if name == "" {
		name = "upload"
	}
	if len(name) > 40 {
		name = strings.Trim(name[:40], "-")
	}
	return fmt.Sprintf("%s/%s-%s%s", kind, name, uuid.NewString(), ext)
}
