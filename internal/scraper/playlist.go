package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/grafov/m3u8"
)

// DecodePlaylist parses raw m3u8 bytes fetched from playlistURL into the
// opaque Playlist view. Master playlists contribute their subtitle
// renditions; media playlists contribute their segment URIs. All URIs are
// resolved to absolute form against the playlist URL.
func DecodePlaylist(playlistURL string, data []byte) (*Playlist, error) {
	base, err := url.Parse(playlistURL)
	if err != nil {
		return nil, fmt.Errorf("parse playlist url: %w", err)
	}

	decoded, listType, err := m3u8.DecodeFrom(bytes.NewReader(data), true)
	if err != nil {
		return nil, fmt.Errorf("decode playlist %s: %w", playlistURL, err)
	}

	out := &Playlist{URL: playlistURL}
	switch listType {
	case m3u8.MASTER:
		master, ok := decoded.(*m3u8.MasterPlaylist)
		if !ok {
			return nil, fmt.Errorf("unexpected master playlist type for %s", playlistURL)
		}
		seen := make(map[string]struct{})
		for _, variant := range master.Variants {
			if variant == nil {
				continue
			}
			for _, alt := range variant.Alternatives {
				if alt == nil || !strings.EqualFold(alt.Type, "SUBTITLES") || alt.URI == "" {
					continue
				}
				uri, err := resolveURI(base, alt.URI)
				if err != nil {
					return nil, err
				}
				// The same rendition group is repeated on every variant.
				if _, ok := seen[uri]; ok {
					continue
				}
				seen[uri] = struct{}{}
				out.Subtitles = append(out.Subtitles, SubtitleEntry{
					Language: alt.Language,
					Name:     alt.Name,
					URI:      uri,
					Forced:   strings.EqualFold(alt.Forced, "yes"),
				})
			}
		}
	case m3u8.MEDIA:
		media, ok := decoded.(*m3u8.MediaPlaylist)
		if !ok {
			return nil, fmt.Errorf("unexpected media playlist type for %s", playlistURL)
		}
		for _, seg := range media.Segments {
			if seg == nil || seg.URI == "" {
				continue
			}
			uri, err := resolveURI(base, seg.URI)
			if err != nil {
				return nil, err
			}
			out.Segments = append(out.Segments, uri)
		}
	default:
		return nil, fmt.Errorf("unsupported playlist type for %s", playlistURL)
	}
	return out, nil
}

func resolveURI(base *url.URL, uri string) (string, error) {
	ref, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse uri %q: %w", uri, err)
	}
	return base.ResolveReference(ref).String(), nil
}
