package archive

import (
	"errors"
	"os"
)

// DiskCapabilities implements Capabilities against the real
// filesystem with tar.gz as the archive format.
type DiskCapabilities struct{}

// NewDiskCapabilities returns the production Capabilities
// implementation.
func NewDiskCapabilities() *DiskCapabilities {
	return &DiskCapabilities{}
}

func (DiskCapabilities) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (DiskCapabilities) Remove(path string) error {
	return os.Remove(path)
}

func (DiskCapabilities) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func (DiskCapabilities) MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func (DiskCapabilities) Extract(archivePath, destDir string) error {
	return ExtractTarGz(archivePath, destDir)
}

func (DiskCapabilities) Compress(srcPath, archivePath string) error {
	return CompressTarGz(srcPath, archivePath)
}
