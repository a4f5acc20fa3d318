package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"oversound/internal/upstream"

	"github.com/bogem/id3v2/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/tidwall/gjson"
)

const defaultAudioType = "audio/mpeg"

// Track is decoded audio ready to be served.
type Track struct {
	ID          int
	Data        []byte
	ContentType string
	Filename    string
}

// TrackService fetches base64 audio from the tracks upstream.
type TrackService struct {
	tracks Upstream
}

func NewTrackService(tracks Upstream) *TrackService {
	return &TrackService{tracks: tracks}
}

// Track returns the decoded audio of a track. A missing or empty payload is ErrNotFound.
func (s *TrackService) Track(ctx context.Context, id int) (*Track, error) {
	raw, err := s.tracks.DoRaw(ctx, upstream.Call{Method: http.MethodGet, Path: fmt.Sprintf("/track/%d", id), Class: upstream.Media})
	if err != nil {
		return nil, notFound("track", id, err)
	}
	encoded := gjson.GetBytes(raw, "track").String()
	if encoded == "" {
		return nil, notFound("track", id, fmt.Errorf("empty track payload"))
	}
	data, err := decodeAudio(encoded)
	if err != nil {
		return nil, notFound("track", id, err)
	}

	t := &Track{ID: id, Data: data, ContentType: defaultAudioType}
	if mt := mimetype.Detect(data); strings.HasPrefix(mt.String(), "audio/") {
		t.ContentType = mt.String()
	}
	t.Filename = trackFilename(id, data)
	slog.Debug("Track decoded", "id", id, "bytes", len(data), "contentType", t.ContentType)
	return t, nil
}

func decodeAudio(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if data, err := base64.StdEncoding.DecodeString(encoded); err == nil {
		return data, nil
	}
	data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return data, nil
}

// trackFilename names the download after the ID3 artist and title when the
// audio carries them, else track_{id}.mp3.
func trackFilename(id int, data []byte) string {
	fallback := fmt.Sprintf("track_%d.mp3", id)
	tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
	if err != nil {
		return fallback
	}

	title := SanitizeFilename(tag.Title())
	if title == "" {
		return fallback
	}
	if artist := SanitizeFilename(tag.Artist()); artist != "" {
		return fmt.Sprintf("%s - %s.mp3", artist, title)
	}
	return title + ".mp3"
}

// SanitizeFilename strips characters that break a Content-Disposition
// filename or a filesystem path.
func SanitizeFilename(name string) string {
	r := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", "\x00", "",
		"\r", "", "\n", "",
	)
	name = strings.Trim(r.Replace(name), " .")
	if len(name) > 150 {
		name = name[:150]
	}
	return name
}
