package crawler

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DumpSuffix marks the IR dump written for a Kotlin file.
	DumpSuffix = ".ir.json"
	// SourceSuffix marks Kotlin sources.
	SourceSuffix = ".kt"
)

// Unit pairs an IR dump with the Kotlin file it was produced from. Source is
// empty when the file is not next to the dump.
type Unit struct {
	Dump   string
	Source string
}

// Crawler scans a directory tree for IR dumps.
type Crawler struct {
	ignored []string
}

// NewCrawler creates a crawler that also skips the given directory names.
func NewCrawler(ignored ...string) *Crawler {
	return &Crawler{
		ignored: append([]string{".git", ".gradle", ".idea", "build", "node_modules"}, ignored...),
	}
}

// Skips reports whether directories called name are not descended into.
func (c *Crawler) Skips(name string) bool {
	for _, ign := range c.ignored {
		if name == ign {
			return true
		}
	}
	return false
}

// ScanProject walks root and streams every dump found, in lexical order.
func (c *Crawler) ScanProject(root string, onUnit func(Unit)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && c.Skips(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsDump(path) {
			return nil
		}
		onUnit(UnitFor(path))
		return nil
	})
}

// Collect is ScanProject gathering the units into a slice.
func (c *Crawler) Collect(root string) ([]Unit, error) {
	var units []Unit
	err := c.ScanProject(root, func(u Unit) {
		units = append(units, u)
	})
	return units, err
}

// ForSources maps changed Kotlin files to the units whose dumps exist.
// Paths that are not Kotlin sources are dropped.
func (c *Crawler) ForSources(paths []string) []Unit {
	seen := make(map[string]bool)
	var units []Unit
	for _, p := range paths {
		var dump string
		switch {
		case IsDump(p):
			dump = p
		case strings.HasSuffix(p, SourceSuffix):
			dump = DumpPath(p)
		default:
			continue
		}
		if seen[dump] || c.inIgnoredDir(dump) {
			continue
		}
		if _, err := os.Stat(dump); err != nil {
			continue
		}
		seen[dump] = true
		units = append(units, UnitFor(dump))
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Dump < units[j].Dump })
	return units
}

func (c *Crawler) inIgnoredDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		if c.Skips(part) {
			return true
		}
	}
	return false
}

func IsDump(path string) bool { return strings.HasSuffix(path, DumpSuffix) }

// DumpPath returns where the dump of a Kotlin source lives.
func DumpPath(source string) string {
	return strings.TrimSuffix(source, SourceSuffix) + DumpSuffix
}

// SourcePath returns the Kotlin file a dump was produced from.
func SourcePath(dump string) string {
	return strings.TrimSuffix(dump, DumpSuffix) + SourceSuffix
}

// UnitFor pairs dump with its source if that file exists.
func UnitFor(dump string) Unit {
	u := Unit{Dump: dump}
	src := SourcePath(dump)
	if _, err := os.Stat(src); err == nil {
		u.Source = src
	}
	return u
}
