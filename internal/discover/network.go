package discover

import (
	"path/filepath"
	"strings"
)

// IsNetworkPath detects paths that look like network-mounted storage.
// Batch-compressing over a share is slow and easy to trigger by
// accident, so the folder commands refuse such roots unless the user
// overrides the check.
func IsNetworkPath(path string) bool {
	// Windows UNC paths, checked before resolving to absolute.
	if strings.HasPrefix(path, "//") || strings.HasPrefix(path, "\\\\") {
		return true
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	networkPrefixes := []string{
		"/mnt/",     // Linux NFS/SMB mounts
		"/media/",   // Linux removable/network media
		"/Volumes/", // macOS network volumes
	}
	for _, prefix := range networkPrefixes {
		if strings.HasPrefix(absPath, prefix) {
			return true
		}
	}

	lowerPath := strings.ToLower(absPath)
	networkIndicators := []string{
		"nfs", "cifs", "smb", "webdav", "ftp", "sftp",
	}
	for _, indicator := range networkIndicators {
		if strings.Contains(lowerPath, indicator) {
			return true
		}
	}

	return false
}
