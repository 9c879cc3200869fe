package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// GenerateDashboardFolderPath generates a consistent folder path for dashboard snapshots
// Format: YYYY/MM/DD/RoomDashboard-YYYY-MM-DD-HH-MM-SS
func GenerateDashboardFolderPath(timestamp time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d/RoomDashboard-%04d-%02d-%02d-%02d-%02d-%02d",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	case ".csv":
		return "text/csv"
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".md":
		return "text/markdown"
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// cleanRelative normalizes a storage path to a slash-separated relative
// path. Paths containing ".." segments are rejected.
func cleanRelative(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("path %q escapes storage root", p)
		}
	}
	return strings.TrimPrefix(path.Clean("/"+p), "/"), nil
}
