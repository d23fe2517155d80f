package catalog

import (
	"fmt"
	"os"
	"path/filepath"
)

// On-disk layout inside a library root. External consumers resolve cached
// artifact paths through these helpers only; the directory and file names
// are a compatibility contract.
const (
	catalogDirName      = ".catalog"
	storeFileName       = "catalog.db"
	thumbnailDirName    = "thumbnails"
	contactSheetDirName = "contactSheets"
)

// Dir returns the catalog metadata directory for a library root.
func Dir(root string) string {
	return filepath.Join(root, catalogDirName)
}

// StorePath returns the path of the persistent asset registry.
func StorePath(root string) string {
	return filepath.Join(Dir(root), storeFileName)
}

// ThumbnailDir returns the thumbnail cache directory.
func ThumbnailDir(root string) string {
	return filepath.Join(Dir(root), thumbnailDirName)
}

// ContactSheetDir returns the contact sheet cache directory.
func ContactSheetDir(root string) string {
	return filepath.Join(Dir(root), contactSheetDirName)
}

// ThumbnailPath returns the cached thumbnail path for an asset id.
func ThumbnailPath(root, assetID string) string {
	return filepath.Join(ThumbnailDir(root), assetID+".jpg")
}

// ContactSheetPath returns the cached contact sheet path for an asset id.
func ContactSheetPath(root, assetID string) string {
	return filepath.Join(ContactSheetDir(root), assetID+".jpg")
}

// EnsureArtifactDirs creates the thumbnail and contact sheet cache
// directories if they do not exist yet.
func EnsureArtifactDirs(root string) error {
	for _, dir := range []string{ThumbnailDir(root), ContactSheetDir(root)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
		}
	}
	return nil
}
