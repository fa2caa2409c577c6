// Package urlmatch gates the sweep on the page the user is looking at.
package urlmatch

import (
	"net/url"
	"strings"
)

// Known surfaces of the host site. Anything else classifies as "other".
const (
	SurfaceHome        = "home"
	SurfaceProfile     = "profile"
	SurfaceGroups      = "groups"
	SurfaceMarketplace = "marketplace"
	SurfaceWatch       = "watch"
	SurfaceOther       = "other"
)

var knownSurfaces = map[string]bool{
	SurfaceHome:        true,
	SurfaceProfile:     true,
	SurfaceGroups:      true,
	SurfaceMarketplace: true,
	SurfaceWatch:       true,
	SurfaceOther:       true,
}

// Known reports whether name is a recognized surface identifier.
func Known(name string) bool {
	return knownSurfaces[name]
}

// Surface classifies a page URL by its first path segment. The root path is
// the home feed; unparseable URLs and unrecognized segments are "other".
func Surface(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return SurfaceOther
	}

	seg := strings.Trim(u.Path, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}

	switch seg {
	case "":
		return SurfaceHome
	case "profile", "profile.php", "me":
		return SurfaceProfile
	case "groups":
		return SurfaceGroups
	case "marketplace":
		return SurfaceMarketplace
	case "watch":
		return SurfaceWatch
	default:
		return SurfaceOther
	}
}

// Allowed reports whether the sweep should run on the given page. An empty
// runOn map allows every surface; otherwise the surface's flag decides and
// an absent flag denies.
func Allowed(rawURL string, runOn map[string]bool) bool {
	if len(runOn) == 0 {
		return true
	}
	return runOn[Surface(rawURL)]
}
