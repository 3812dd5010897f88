package iox

import (
	"fmt"
	"io"
	"os"
)

func WriteStreamToFile(dstFilename string, src io.Reader) error {
	dstFile, err := os.Create(dstFilename)
	if err != nil {
		return err
	}
	defer dstFile.Close()
	_, err = io.Copy(dstFile, src)
	if err != nil {
		os.Remove(dstFilename)
		return err
	}
	// Flush to disk before returning, so the copy is durable once we report success.
	return dstFile.Sync()
}

// CopyFile copies src to dst and syncs dst to disk.
func CopyFile(srcFilename, dstFilename string) error {
	srcFile, err := os.Open(srcFilename)
	if err != nil {
		return fmt.Errorf("failed to copy %v to %v: %w", srcFilename, dstFilename, err)
	}
	defer srcFile.Close()
	if err := WriteStreamToFile(dstFilename, srcFile); err != nil {
		return fmt.Errorf("failed to copy %v to %v: %w", srcFilename, dstFilename, err)
	}
	return nil
}
