package manyglibc

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/pgzip"
)

// rotateLogs bundles the existing per-target log files into a timestamped
// tarball under the logs directory and removes the originals, so a fresh
// run starts with a clean logs dir without losing the previous one.
func rotateLogs(logsDir string) error {
	var logs []string
	for _, pattern := range []string{"*.out", "*.err"} {
		matches, err := filepath.Glob(filepath.Join(logsDir, pattern))
		if err != nil {
			return err
		}
		logs = append(logs, matches...)
	}
	if len(logs) == 0 {
		return nil
	}

	tarballPath := filepath.Join(logsDir,
		fmt.Sprintf("logs-%s.tar.gz", time.Now().Format("20060102-150405")))
	outFile, err := os.Create(tarballPath)
	if err != nil {
		return fmt.Errorf("failed to create log archive: %v", err)
	}
	defer outFile.Close()

	zw := pgzip.NewWriter(outFile)
	defer zw.Close()
	tw := tar.NewWriter(zw)
	defer tw.Close()

	for _, path := range logs {
		info, err := os.Lstat(path)
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			continue
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.Base(path)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(tw, f); err != nil {
			f.Close()
			return err
		}
		f.Close()
	}

	for _, path := range logs {
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	colArrow.Print("-> ")
	colSuccess.Printf("Previous logs archived to %s\n", tarballPath)
	return nil
}
