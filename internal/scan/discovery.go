package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mvp-joe/structlens/internal/config"
	"github.com/mvp-joe/structlens/internal/pathglob"
)

// FileDiscovery handles file discovery with glob patterns and ignore rules.
type FileDiscovery struct {
	rootDir         string
	includePatterns pathglob.Set
	ignorePatterns  pathglob.Set
}

// NewFileDiscovery creates a new file discovery instance.
func NewFileDiscovery(rootDir string, includePatterns, ignorePatterns []string) (*FileDiscovery, error) {
	include, err := pathglob.CompileAll(includePatterns)
	if err != nil {
		return nil, err
	}
	ignore, err := pathglob.CompileAll(ignorePatterns)
	if err != nil {
		return nil, err
	}

	return &FileDiscovery{
		rootDir:         rootDir,
		includePatterns: include,
		ignorePatterns:  ignore,
	}, nil
}

// DiscoverFiles walks the directory tree and returns the slash-separated
// paths, relative to the root, of files matching an include pattern.
// Ignored directories are not descended into. Paths are sorted.
func (fd *FileDiscovery) DiscoverFiles() ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(fd.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if fd.shouldIgnoreDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if fd.ignorePatterns.Match(relPath) {
			return nil
		}

		if fd.includePatterns.Match(relPath) {
			files = append(files, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// shouldIgnoreDir checks if a directory matches any ignore pattern.
// "node_modules/**" covers the "node_modules" directory itself.
func (fd *FileDiscovery) shouldIgnoreDir(relPath string) bool {
	// Always ignore the structlens config directory
	if relPath == config.DirName || strings.HasPrefix(relPath, config.DirName+"/") {
		return true
	}
	return fd.ignorePatterns.MatchDir(relPath)
}
