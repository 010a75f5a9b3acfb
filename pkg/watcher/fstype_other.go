//go:build !linux

package watcher

// DetectFilesystemType is only implemented on Linux; elsewhere fsnotify is
// used unless polling is forced.
func DetectFilesystemType(path string) FilesystemType {
	return FSTypeUnknown
}
