package registry

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Scan walks the registry root: every subdirectory holding a .json data file
// and a .png map image becomes a File. A directory missing either is logged
// and skipped; the rest of the scan is unaffected. An image filename without
// a parseable offset anchor fails the scan outright, since every published
// coordinate would be wrong.
func Scan(root string, logger *log.Logger) ([]File, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var results []File
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		dirPath := filepath.Join(root, de.Name())
		names, err := os.ReadDir(dirPath)
		if err != nil {
			return nil, err
		}
		var jsonName, imageName string
		for _, n := range names {
			switch {
			case jsonName == "" && strings.HasSuffix(n.Name(), ".json"):
				jsonName = n.Name()
			case imageName == "" && strings.HasSuffix(n.Name(), ".png"):
				imageName = n.Name()
			}
		}
		if jsonName == "" || imageName == "" {
			logger.Printf("registry %s missing json data file or png image, skipping", de.Name())
			continue
		}

		offsetX, offsetY, err := ExtractCoords(imageName)
		if err != nil {
			return nil, err
		}
		results = append(results, File{
			Path:      dirPath,
			DataFile:  filepath.Join(dirPath, jsonName),
			ImageFile: filepath.Join(dirPath, imageName),
			OffsetX:   offsetX,
			OffsetY:   offsetY,
		})
	}
	return results, nil
}
