// Package gdrive rewrites Google Drive sharing links into direct-content
// URLs. Registration forms collect Drive share links for member photos;
// those links resolve to an interactive viewer page, so the roster keeps
// the uc?export=view form that serves the file bytes directly.
package gdrive

import (
	"net/url"
	"strings"
)

// Host is the Drive sharing domain this package recognizes.
const Host = "drive.google.com"

// filePathMarker precedes the file id in share links of the form
// https://drive.google.com/file/d/<id>/view.
const filePathMarker = "/file/d/"

// directURLPrefix is the direct-content template; append the file id.
const directURLPrefix = "https://drive.google.com/uc?export=view&id="

// IsDriveURL reports whether raw parses as a URL on the Drive sharing
// domain.
func IsDriveURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == Host || strings.HasSuffix(host, "."+Host)
}

// FileID extracts the Drive file id from a sharing link. It recognizes
// the two shapes Drive hands out: a /file/d/<id>/ path segment and an
// id= query parameter. ok is false for non-Drive URLs and for Drive
// URLs with no recoverable id.
func FileID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if !IsDriveURL(raw) {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	if i := strings.Index(u.Path, filePathMarker); i >= 0 {
		id := u.Path[i+len(filePathMarker):]
		if j := strings.IndexByte(id, '/'); j >= 0 {
			id = id[:j]
		}
		if id != "" {
			return id, true
		}
	}

	if id := u.Query().Get("id"); id != "" {
		return id, true
	}

	return "", false
}

// DirectURL rewrites a Drive sharing link to its direct-content form.
// Values that are not Drive links, and Drive links with no extractable
// file id, come back unchanged rather than being dropped.
func DirectURL(raw string) string {
	id, ok := FileID(raw)
	if !ok {
		return raw
	}
	return directURLPrefix + id
}
