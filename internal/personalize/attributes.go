package personalize

import (
	"net/url"
	"strings"
)

// Live attribute keys carrying the CDP profile.
const (
	AttrSegments = "cdp_segments"
	AttrBadges   = "cdp_badges"
)

// LiveAttributes merges URL query parameters with the profile. The profile wins
// over query parameters of the same name.
func LiveAttributes(profile Profile, query url.Values) map[string]string {
	attrs := make(map[string]string, len(query)+2)
	for key, values := range query {
		if len(values) == 0 || strings.TrimSpace(key) == "" {
			continue
		}
		attrs[key] = values[0]
	}
	attrs[AttrSegments] = strings.Join(profile.Segments, ",")
	attrs[AttrBadges] = strings.Join(profile.Badges, ",")
	return attrs
}
