package command

import (
	"os"
	"path/filepath"
)

// Executable is the outcome of an executable search.
type Executable struct {
	// Path is what should be passed to the Runner.
	Path string
	// FromPATH is true when none of the candidates existed and Path came from a PATH lookup.
	FromPATH bool
}

// FindExecutable returns the first candidate that exists, resolving relative
// candidates against dir. When no candidate exists it falls back to a PATH
// lookup of name. The boolean is false when nothing could be found.
func FindExecutable(runner Runner, dir string, candidates []string, name string) (Executable, bool) {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if FileExists(ResolvePath(dir, candidate)) {
			return Executable{Path: ResolvePath(dir, candidate)}, true
		}
	}

	if name == "" {
		return Executable{}, false
	}
	path, err := runner.LookPath(name)
	if err != nil || path == "" {
		return Executable{}, false
	}
	return Executable{Path: path, FromPATH: true}, true
}

// ResolvePath joins a relative path onto dir. Absolute paths and an empty dir
// leave path untouched.
func ResolvePath(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// FileExists reports whether path exists at the moment of the call.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
