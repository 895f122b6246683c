package garage

import (
	"regexp"
	"strings"

	"evexpert-backend/internal/domain"
)

var youtubeRe = regexp.MustCompile(`^.*((youtu.be/)|(v/)|(/u/\w/)|(embed/)|(watch\?))\??v?=?([^#&?]*).*`)

// YouTubeID extracts the 11-character video id from watch, short, embed and
// mobile YouTube URLs. Search result pages have no id.
func YouTubeID(u string) (string, bool) {
	if u == "" || strings.Contains(u, "/results?") {
		return "", false
	}
	m := youtubeRe.FindStringSubmatch(u)
	if m == nil || len(m[7]) != 11 {
		return "", false
	}
	return m[7], true
}

// YouTubeThumbnail returns the max-resolution still for a video id.
func YouTubeThumbnail(videoID string) string {
	return "https://img.youtube.com/vi/" + videoID + "/maxresdefault.jpg"
}

// CleanTags trims tags and drops empty and repeated ones, keeping first-seen order.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// CleanLinks drops links without a URL, defaults the label to the URL and
// classifies the type. YouTube videos are always "video"; unknown types become "other".
func CleanLinks(links []domain.ExternalLink) []domain.ExternalLink {
	out := make([]domain.ExternalLink, 0, len(links))
	for _, l := range links {
		l.URL = strings.TrimSpace(l.URL)
		if l.URL == "" {
			continue
		}
		l.Label = strings.TrimSpace(l.Label)
		if l.Label == "" {
			l.Label = l.URL
		}
		switch l.Type {
		case domain.LinkTypeVideo, domain.LinkTypeArticle, domain.LinkTypeForum, domain.LinkTypeOther:
		default:
			l.Type = domain.LinkTypeOther
		}
		if _, ok := YouTubeID(l.URL); ok {
			l.Type = domain.LinkTypeVideo
		}
		out = append(out, l)
	}
	return out
}
