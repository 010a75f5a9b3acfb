//go:build linux

package watcher

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Magic numbers from statfs(2).
const (
	nfsSuperMagic  = 0x6969
	smbSuperMagic  = 0x517b
	cifsMagic      = 0xff534d42
	smb2MagicNum   = 0xfe534d42
	fuseSuperMagic = 0x65735546
)

// DetectFilesystemType classifies the filesystem holding path. A path that
// does not exist yet is classified by its parent directory.
func DetectFilesystemType(path string) FilesystemType {
	if path == "" {
		return FSTypeUnknown
	}
	target := path
	if _, err := os.Stat(target); err != nil {
		target = filepath.Dir(path)
	}

	var st unix.Statfs_t
	if err := unix.Statfs(target, &st); err != nil {
		return FSTypeUnknown
	}

	switch uint32(st.Type) {
	case nfsSuperMagic:
		return FSTypeNFS
	case smbSuperMagic, cifsMagic, smb2MagicNum:
		return FSTypeSMB
	case fuseSuperMagic:
		if fuseSubtype(target) == "sshfs" {
			return FSTypeSSHFS
		}
		return FSTypeFUSE
	default:
		return FSTypeLocal
	}
}

// fuseSubtype finds the mount holding path in /proc/self/mounts and returns
// the part after "fuse." in its type, if any.
func fuseSubtype(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	f, err := os.Open("/proc/self/mounts")
	if err != nil {
		return ""
	}
	defer f.Close()

	var best, bestType string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		mnt, typ := fields[1], fields[2]
		if (abs == mnt || strings.HasPrefix(abs, strings.TrimSuffix(mnt, "/")+"/")) && len(mnt) > len(best) {
			best, bestType = mnt, typ
		}
	}
	sub, _ := strings.CutPrefix(bestType, "fuse.")
	return sub
}
