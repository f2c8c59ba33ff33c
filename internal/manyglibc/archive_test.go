package manyglibc

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
)

func TestRotateLogs(t *testing.T) {
	logsDir := t.TempDir()
	files := map[string]string{
		"aarch64-linux-gnu_configure.out": "checking build system type...\n",
		"aarch64-linux-gnu_configure.err": "",
		"hppa-linux-gnu_compile.out":      "make: Entering directory\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(logsDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := rotateLogs(logsDir); err != nil {
		t.Fatalf("rotateLogs: %v", err)
	}

	for name := range files {
		if _, err := os.Stat(filepath.Join(logsDir, name)); !os.IsNotExist(err) {
			t.Errorf("%s not removed after rotation", name)
		}
	}

	tarballs, err := filepath.Glob(filepath.Join(logsDir, "logs-*.tar.gz"))
	if err != nil || len(tarballs) != 1 {
		t.Fatalf("tarballs: %v, %v", tarballs, err)
	}

	f, err := os.Open(tarballs[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := pgzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	tr := tar.NewReader(zr)
	seen := make(map[string]string)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			t.Fatal(err)
		}
		seen[hdr.Name] = string(data)
	}
	for name, content := range files {
		if seen[name] != content {
			t.Errorf("archived %s = %q, want %q", name, seen[name], content)
		}
	}
}

func TestRotateLogsEmptyDir(t *testing.T) {
	logsDir := t.TempDir()
	if err := rotateLogs(logsDir); err != nil {
		t.Fatalf("rotateLogs on empty dir: %v", err)
	}
	tarballs, _ := filepath.Glob(filepath.Join(logsDir, "logs-*.tar.gz"))
	if len(tarballs) != 0 {
		t.Error("archive created with nothing to archive")
	}
}
