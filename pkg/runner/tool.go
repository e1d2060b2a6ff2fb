package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/findolor/local-db-remote/pkg/archive"
	"github.com/findolor/local-db-remote/pkg/fetch"
)

// BinaryName is the file name of the external sync CLI inside its
// release archive.
const BinaryName = "rain-orderbook-cli"

// DownloadTool fetches the CLI release archive and writes it to
// destination.
func DownloadTool(ctx context.Context, client fetch.Client, url, destination string) error {
	bytes, err := client.Binary(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to download CLI archive from %s: %w", url, err)
	}
	if err := os.WriteFile(destination, bytes, 0644); err != nil {
		return fmt.Errorf("failed to write CLI archive to %s: %w", destination, err)
	}
	return nil
}

// ExtractTool unpacks the CLI archive into outputDir, locates the CLI
// binary, and marks it executable.
func ExtractTool(archivePath, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", outputDir, err)
	}
	if err := archive.ExtractTarGz(archivePath, outputDir); err != nil {
		return "", fmt.Errorf("failed to extract CLI archive: %w", err)
	}

	binary, err := findBinary(outputDir)
	if err != nil {
		return "", err
	}
	if binary == "" {
		return "", fmt.Errorf("unable to locate %s binary under %s", BinaryName, outputDir)
	}
	if err := os.Chmod(binary, 0755); err != nil {
		return "", fmt.Errorf("failed to set executable bit on %s: %w", binary, err)
	}
	return binary, nil
}

func findBinary(root string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == BinaryName {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan %s for CLI binary: %w", root, err)
	}
	return found, nil
}
