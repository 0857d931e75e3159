// Package scanner discovers page components below a pages directory.
// Reserved entries (__name__ directories and files, hidden folders,
// node_modules) never become routes.
package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/abdul-hamid-achik/routegen/internal/logging"
)

// DefaultPattern matches every component file below the pages directory.
const DefaultPattern = "**/*.vue"

// reservedRe matches "__name__" directory names and file stems.
var reservedRe = regexp.MustCompile(`^__.+__$`)

// knownPrivateFolders contains folder names that should be skipped
var knownPrivateFolders = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// Scanner scans a pages directory for component files.
type Scanner struct {
	dir     string
	pattern string
	ignore  []string
	fsys    fs.FS
	log     *slog.Logger
}

// NewScanner creates a new Scanner for the given pages directory.
func NewScanner(dir string) *Scanner {
	return &Scanner{
		dir:     dir,
		pattern: DefaultPattern,
		fsys:    os.DirFS(dir),
		log:     logging.Discard(),
	}
}

// SetPattern sets the glob used to select component files.
func (s *Scanner) SetPattern(pattern string) {
	if pattern != "" {
		s.pattern = pattern
	}
}

// SetIgnore sets extra globs whose matches are skipped.
func (s *Scanner) SetIgnore(patterns []string) {
	s.ignore = patterns
}

// SetLogger sets the logger used for debug output.
func (s *Scanner) SetLogger(l *slog.Logger) {
	if l != nil {
		s.log = l
	}
}

// Dir returns the scanned directory.
func (s *Scanner) Dir() string {
	return s.dir
}

// Scan returns the matching files as sorted slash-separated paths relative
// to the pages directory. A missing directory yields no pages.
func (s *Scanner) Scan() ([]string, error) {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		s.log.Debug("pages directory does not exist", "dir", s.dir)
		return nil, nil
	}

	if !doublestar.ValidatePattern(s.pattern) {
		return nil, fmt.Errorf("invalid pattern %q", s.pattern)
	}
	for _, p := range s.ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid ignore pattern %q", p)
		}
	}

	matches, err := doublestar.Glob(s.fsys, s.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.dir, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		if s.Skip(m) {
			s.log.Debug("skipping reserved page", "file", m)
			continue
		}
		paths = append(paths, m)
	}

	sort.Strings(paths)
	return paths, nil
}

// Match reports whether a slash path relative to the pages directory is a
// page this scanner would return.
func (s *Scanner) Match(rel string) bool {
	ok, err := doublestar.Match(s.pattern, rel)
	return err == nil && ok && !s.Skip(rel)
}

// Skip reports whether a path is reserved or ignored.
func (s *Scanner) Skip(rel string) bool {
	segments := strings.Split(rel, "/")
	for i, seg := range segments {
		if i < len(segments)-1 && IsPrivateFolder(seg) {
			return true
		}
		if IsReserved(seg) {
			return true
		}
	}
	for _, p := range s.ignore {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// IsReserved checks if a directory name or file name is shaped "__name__".
// File extensions are ignored.
func IsReserved(name string) bool {
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return reservedRe.MatchString(name)
}

// IsPrivateFolder checks if a directory should be skipped during scanning.
func IsPrivateFolder(name string) bool {
	// Hidden directories
	if strings.HasPrefix(name, ".") {
		return true
	}
	// Known private folders
	return knownPrivateFolders[name]
}
