package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// DeleteFile removes a stored file. A file that is already gone is not an
// error; callers delete images and cached invoices opportunistically.
func DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ImageDiskPath maps a public image URL like "/uploads/products/x.jpg" back
// to its location under the upload directory.
func ImageDiskPath(uploadDir, imageURL string) string {
	return filepath.Join(uploadDir, "products", filepath.Base(imageURL))
}

// SanitizeFilename strips path separators and spaces from an uploaded
// file's name so it can be stored directly on disk.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.ReplaceAll(name, " ", "_")
}
