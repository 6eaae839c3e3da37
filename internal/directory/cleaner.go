package directory

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/layerconf/internal/logger"
	"github.com/shinji-kodama/layerconf/internal/model"
)

// Cleaner erases the contents of declared directories.
type Cleaner struct {
	registry *Registry
	out      io.Writer
	log      *logger.Logger
}

// NewCleaner creates a Cleaner reporting progress to out. log receives the
// underlying filesystem errors; it may be nil.
func NewCleaner(registry *Registry, out io.Writer, log *logger.Logger) *Cleaner {
	if log == nil {
		log = logger.Nop()
	}
	return &Cleaner{registry: registry, out: out, log: log}
}

// Clean erases everything beneath the directories declared under names,
// keeping the directories themselves.
//
// The request is validated first: if any name is not declared, a single
// "Unsupported directory names" line lists all of them and nothing is
// cleaned (ExitUnsupportedDirectories). Otherwise each directory is cleaned
// in request order; a failure is reported and the batch continues. The
// result is ExitSuccess when every directory was cleaned and ExitCleanFailed
// when at least one was not.
func (c *Cleaner) Clean(names []string) model.ExitCode {
	// Step 1: Partition the request into known and unknown names.
	var unknown []string
	for _, name := range names {
		if !c.registry.Has(name) {
			unknown = append(unknown, `"`+name+`"`)
		}
	}

	if len(unknown) > 0 {
		fmt.Fprintf(c.out, "Unsupported directory names: %s\n", strings.Join(unknown, ", "))
		return model.ExitUnsupportedDirectories
	}

	// Step 2: Clean each directory, remembering whether any failed.
	failed := false
	for _, name := range names {
		path, _ := c.registry.Path(name)

		fmt.Fprintf(c.out, "Start clean directory with name \"%s\" at path \"%s\"\n", name, path)

		if err := RemoveContents(path); err != nil {
			c.log.Debug().Err(err).Str("name", name).Str("path", path).Msg("clean failed")
			fmt.Fprintf(c.out, "Directory with name \"%s\" at path \"%s\" could not be cleaned\n", name, path)
			failed = true
		}
	}

	if failed {
		return model.ExitCleanFailed
	}
	return model.ExitSuccess
}

// RemoveContents deletes every file and subdirectory beneath root, depth
// first, leaving root itself in place. Symbolic links are removed, never
// followed. A missing root is an error.
func RemoveContents(root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())

		// entry.IsDir is false for symlinks, so links to directories are
		// removed as links.
		if entry.IsDir() {
			if err := RemoveContents(path); err != nil {
				return err
			}
		}
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return nil
}
