package audio

import (
	"net/url"
	"regexp"
	"strings"
)

const soundCloudPlayerBase = "https://w.soundcloud.com/player/"

var (
	iframeSrcPattern = regexp.MustCompile(`src=["']([^"']+)["']`)
	embedURLPattern  = regexp.MustCompile(`[?&]url=([^&]+)`)
)

// EmbedURL builds the SoundCloud player URL with the archive's fixed
// player options.
func EmbedURL(trackURL string) string {
	params := url.Values{
		"url":            {trackURL},
		"color":          {"#666666"},
		"auto_play":      {"false"},
		"hide_related":   {"true"},
		"show_comments":  {"false"},
		"show_user":      {"false"},
		"show_reposts":   {"false"},
		"show_teaser":    {"false"},
		"visual":         {"false"},
		"show_playcount": {"false"},
		"sharing":        {"true"},
		"download":       {"false"},
		"buying":         {"false"},
		"show_artwork":   {"false"},
	}
	return soundCloudPlayerBase + "?" + params.Encode()
}

// ExtractTrackURL accepts either a bare track URL or a pasted embed iframe
// and returns the track URL.
func ExtractTrackURL(input string) string {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "<iframe") {
		return trimmed
	}
	src := iframeSrcPattern.FindStringSubmatch(trimmed)
	if src == nil {
		return trimmed
	}
	m := embedURLPattern.FindStringSubmatch(src[1])
	if m == nil {
		return trimmed
	}
	decoded, err := url.QueryUnescape(m[1])
	if err != nil {
		return trimmed
	}
	return decoded
}
