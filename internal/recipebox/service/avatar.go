package service

import (
	"net/url"
	"strings"
)

// DefaultAvatarBaseURL renders initials avatars from a seed.
const DefaultAvatarBaseURL = "https://api.dicebear.com/9.x/initials/svg"

// AvatarURL derives the placeholder picture of a local account. The same
// seed always yields the same URL.
func AvatarURL(baseURL, seed string) string {
	if baseURL == "" {
		baseURL = DefaultAvatarBaseURL
	}
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + url.Values{"seed": {seed}}.Encode()
}
