package content

import (
	"fmt"
	"os"
	"path/filepath"
)

var imageExts = []string{"png", "jpg", "jpeg"}

// DirAssets resolves card and spread images from a media directory
// laid out as <dir>/cards/<id>.<ext> and <dir>/spreads/<id>.<ext>.
// Card files may be named with or without zero padding.
type DirAssets struct {
	dir string
}

func NewDirAssets(dir string) *DirAssets {
	return &DirAssets{dir: dir}
}

func (a *DirAssets) CardImage(cardID int) (string, bool) {
	bases := []string{
		fmt.Sprintf("%d", cardID),
		fmt.Sprintf("%02d", cardID),
		fmt.Sprintf("%03d", cardID),
	}
	for _, base := range bases {
		for _, ext := range imageExts {
			p := filepath.Join(a.dir, "cards", base+"."+ext)
			if fileExists(p) {
				return p, true
			}
		}
	}
	return "", false
}

func (a *DirAssets) SpreadImage(spreadID string) (string, bool) {
	for _, ext := range imageExts {
		p := filepath.Join(a.dir, "spreads", spreadID+"."+ext)
		if fileExists(p) {
			return p, true
		}
	}
	return "", false
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
