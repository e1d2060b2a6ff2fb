package archive

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestCompressExtractRoundTrip(t *testing.T) {
	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "orderbook.db")
	if err := os.WriteFile(srcPath, []byte("database-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	archivePath := filepath.Join(t.TempDir(), "orderbook.db.tar.gz")
	if err := CompressTarGz(srcPath, archivePath); err != nil {
		t.Fatalf("CompressTarGz returned error: %v", err)
	}

	destDir := t.TempDir()
	if err := ExtractTarGz(archivePath, destDir); err != nil {
		t.Fatalf("ExtractTarGz returned error: %v", err)
	}

	restored, err := os.ReadFile(filepath.Join(destDir, "orderbook.db"))
	if err != nil {
		t.Fatalf("Expected extracted file: %v", err)
	}
	if string(restored) != "database-bytes" {
		t.Errorf("Expected round-tripped content, got %q", restored)
	}
}

func TestCompressStoresBaseNameOnly(t *testing.T) {
	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "nested.db")
	if err := os.WriteFile(srcPath, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	archivePath := filepath.Join(t.TempDir(), "nested.db.tar.gz")
	if err := CompressTarGz(srcPath, archivePath); err != nil {
		t.Fatal(err)
	}

	in, err := os.Open(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	gzr, err := gzip.NewReader(in)
	if err != nil {
		t.Fatal(err)
	}
	header, err := tar.NewReader(gzr).Next()
	if err != nil {
		t.Fatal(err)
	}
	if header.Name != "nested.db" {
		t.Errorf("Expected entry name nested.db, got %q", header.Name)
	}
}

func writeMaliciousArchive(t *testing.T, entryName string) string {
	t.Helper()
	archivePath := filepath.Join(t.TempDir(), "malicious.tar.gz")
	out, err := os.Create(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	gzw := gzip.NewWriter(out)
	tw := tar.NewWriter(gzw)
	content := []byte("escape")
	if err := tw.WriteHeader(&tar.Header{
		Name:     entryName,
		Mode:     0644,
		Size:     int64(len(content)),
		Typeflag: tar.TypeReg,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gzw.Close(); err != nil {
		t.Fatal(err)
	}
	return archivePath
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	archivePath := writeMaliciousArchive(t, "../escape.db")
	if err := ExtractTarGz(archivePath, t.TempDir()); err == nil {
		t.Fatal("Expected extraction of escaping entry to fail")
	}
}

func TestExtractMissingArchiveFails(t *testing.T) {
	err := ExtractTarGz(filepath.Join(t.TempDir(), "missing.tar.gz"), t.TempDir())
	if err == nil {
		t.Fatal("Expected error for missing archive")
	}
}
