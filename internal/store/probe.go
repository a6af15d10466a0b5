package store

import (
	"bytes"
	"io"
	"os"
)

// ggufMagic is the 4-byte signature at the start of every GGUF artifact.
var ggufMagic = []byte("GGUF")

// IsFile reports whether path names a regular file. Any stat error
// (missing, permission, dangling symlink) counts as "no".
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path names a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// HasMagic reports whether the file at path starts with the GGUF
// signature. Reads exactly 4 bytes; I/O errors are absorbed into false
// so that strategy code never has to branch on them.
func HasMagic(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	var head [4]byte
	if _, err := io.ReadFull(f, head[:]); err != nil {
		return false
	}
	return bytes.Equal(head[:], ggufMagic)
}
