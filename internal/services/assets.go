package services

import (
	"os"
	"path/filepath"
	"strings"
)

// RelatedFiles points at optional side assets living next to a video file.
type RelatedFiles struct {
	Subtitle     string // empty when absent
	SubtitleLang string
	Thumbnail    string // empty when absent
}

// FindRelatedFiles looks for a subtitle (.srt or .vtt) and a thumbnail (.png)
// sharing the video's base filename.
func FindRelatedFiles(videoPath string) RelatedFiles {
	dir := filepath.Dir(videoPath)
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))

	related := RelatedFiles{}

	for _, ext := range []string{".srt", ".vtt"} {
		candidate := filepath.Join(dir, stem+ext)
		if _, err := os.Stat(candidate); err == nil {
			related.Subtitle = candidate
			related.SubtitleLang = subtitleLanguage(stem)
			break
		}
	}

	thumbnail := filepath.Join(dir, stem+".png")
	if _, err := os.Stat(thumbnail); err == nil {
		related.Thumbnail = thumbnail
	}

	return related
}

// subtitleLanguage extracts a language code from a dotted filename suffix
// (e.g., "clip.pt-BR" yields "pt-BR"), defaulting to "en".
func subtitleLanguage(stem string) string {
	if idx := strings.LastIndex(stem, "."); idx >= 0 {
		candidate := stem[idx+1:]
		if len(candidate) > 0 && len(candidate) <= 5 && isAlphaDash(candidate) {
			return candidate
		}
	}
	return "en"
}

func isAlphaDash(s string) bool {
	for _, r := range s {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '-'
		if !ok {
			return false
		}
	}
	return true
}
