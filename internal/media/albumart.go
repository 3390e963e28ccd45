package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/llehouerou/mediadash/internal/broker"
)

// RequestAlbumArt asks the bridge to fetch art for an artist/album pair.
// The request value is "<hash>|<artist>|<album>" under the album-art
// request key.
func (s *Service) RequestAlbumArt(ctx context.Context, artist, album string) (string, bool) {
	artist, album = strings.TrimSpace(artist), strings.TrimSpace(album)
	if artist == "" && album == "" {
		return "", false
	}
	hash := ArtHash(artist, album)
	if !s.setString(ctx, broker.KeyAlbumArtRequest, fmt.Sprintf("%s|%s|%s", hash, artist, album)) {
		return hash, false
	}
	return hash, true
}
