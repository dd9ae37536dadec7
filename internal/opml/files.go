package opml

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// StampLayout formats the timestamp embedded in feed file names.
const StampLayout = "20060102_150405"

var feedsFileRe = regexp.MustCompile(`^all_feeds_(\d{8}_\d{6})\.xml$`)

// Stamp returns the current time in StampLayout.
func Stamp() string { return time.Now().Format(StampLayout) }

// CurrentFeedsFile returns the newest all_feeds_YYYYMMDD_HHMMSS.xml in dir.
func CurrentFeedsFile(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	var stamps []string
	for _, e := range entries {
		if m := feedsFileRe.FindStringSubmatch(e.Name()); m != nil {
			stamps = append(stamps, m[1])
		}
	}
	if len(stamps) == 0 {
		return "", false
	}
	sort.Sort(sort.Reverse(sort.StringSlice(stamps)))
	return filepath.Join(dir, "all_feeds_"+stamps[0]+".xml"), true
}

// Locate finds the feed directory in dir: the current all_feeds file, otherwise the first
// .xml file with "feed" in its name.
func Locate(dir string) (string, bool) {
	if p, ok := CurrentFeedsFile(dir); ok {
		return p, true
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasSuffix(name, ".xml") && strings.Contains(strings.ToLower(name), "feed") {
			return filepath.Join(dir, name), true
		}
	}
	return "", false
}

// Publish archives existing all_feeds files in dir as archived_feeds_<stamp>.xml and writes
// data as all_feeds_<stamp>.xml.
func Publish(dir string, data []byte, stamp string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		m := feedsFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		archived := filepath.Join(dir, "archived_feeds_"+m[1]+".xml")
		if err := os.Rename(filepath.Join(dir, e.Name()), archived); err != nil {
			return "", fmt.Errorf("archive %s: %w", e.Name(), err)
		}
	}
	path := filepath.Join(dir, "all_feeds_"+stamp+".xml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
