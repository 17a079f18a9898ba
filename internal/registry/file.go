package registry

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// offsetPattern pins the map anchor embedded in image filenames, e.g.
// "lusitania_x-500_z1200.png" anchors pixel (0,0) at game (-500, 1200).
var offsetPattern = regexp.MustCompile(`_x(-?\d+)_z(-?\d+)\.png$`)

// File is the source metadata for one registry directory: its claim data
// file, its map image, and the pixel offset derived from the image filename.
type File struct {
	Path      string
	DataFile  string
	ImageFile string
	OffsetX   int
	OffsetY   int
}

// RegistryName is the directory name holding the data file.
func (f File) RegistryName() string {
	return filepath.Base(filepath.Dir(f.DataFile))
}

// ImageMapName is the wiki filename the map image is published under.
func (f File) ImageMapName() string {
	name := strings.ToLower(f.RegistryName() + "_civmc.png")
	return strings.ReplaceAll(name, "_", " ")
}

// ExtractCoords pulls the pixel offset out of a map image filename. A
// filename without the _x<int>_z<int>.png suffix has no usable anchor.
func ExtractCoords(filename string) (offsetX, offsetY int, err error) {
	m := offsetPattern.FindStringSubmatch(filename)
	if m == nil {
		return 0, 0, fmt.Errorf("filename %q does not match expected pattern", filename)
	}
	offsetX, _ = strconv.Atoi(m[1])
	offsetY, _ = strconv.Atoi(m[2])
	return offsetX, offsetY, nil
}
