package system

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FindLatestTake finds the most recent take file in a directory
func FindLatestTake(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	extensions := []string{".yaml", ".yml"}
	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		isTake := false
		for _, ext := range extensions {
			if strings.HasSuffix(strings.ToLower(f.Name()), ext) {
				isTake = true
				break
			}
		}
		if isTake {
			info, err := f.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(latestTime) {
				latestTime = info.ModTime()
				latestFile = filepath.Join(dir, f.Name())
			}
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no take files found in %s", dir)
	}

	return latestFile, nil
}

// ListTakes returns every take file in a directory, sorted by name.
func ListTakes(dir string) ([]string, error) {
	yamls, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	ymls, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, err
	}

	takes := append(yamls, ymls...)
	if len(takes) == 0 {
		return nil, fmt.Errorf("no take files found in %s", dir)
	}
	sort.Strings(takes)

	return takes, nil
}
