package treesitter

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
)

var validGrammarName = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// GrammarLoader locates and loads per-language grammar shared libraries
// (libtree-sitter-python.so and friends) from trusted directories. Loaded
// grammars are cached; a grammar that fails once is not retried.
type GrammarLoader struct {
	grammars    map[string]TSLanguage
	failed      map[string]struct{}
	trustedDirs []string
	mu          sync.RWMutex
}

// NewGrammarLoader builds a loader searching the default trusted directories
// plus any extras.
func NewGrammarLoader(extraDirs ...string) *GrammarLoader {
	gl := &GrammarLoader{
		grammars:    make(map[string]TSLanguage),
		failed:      make(map[string]struct{}),
		trustedDirs: defaultTrustedDirs(),
	}
	for _, dir := range extraDirs {
		if abs, err := filepath.Abs(dir); err == nil {
			gl.trustedDirs = append([]string{abs}, gl.trustedDirs...)
		}
	}
	return gl
}

var globalLoader = NewGrammarLoader()

func defaultTrustedDirs() []string {
	var dirs []string

	if override := os.Getenv("SKILLGRADE_GRAMMAR_DIR"); override != "" {
		if abs, err := filepath.Abs(override); err == nil {
			dirs = append(dirs, abs)
		}
	}

	switch runtime.GOOS {
	case "darwin":
		dirs = append(dirs, "/opt/homebrew/lib", "/usr/local/lib")
	case "linux":
		dirs = append(dirs, "/usr/lib", "/usr/local/lib")
	}

	return dirs
}

// Load returns the grammar for the given name, loading its shared library on
// first use. It requires Initialize to have succeeded.
func (gl *GrammarLoader) Load(name string) (TSLanguage, error) {
	if err := validateGrammarName(name); err != nil {
		return 0, err
	}
	if err := Initialize(); err != nil {
		return 0, err
	}

	gl.mu.RLock()
	if lang, ok := gl.grammars[name]; ok {
		gl.mu.RUnlock()
		return lang, nil
	}
	if _, failed := gl.failed[name]; failed {
		gl.mu.RUnlock()
		return 0, errors.Wrapf(ErrUnavailable, "grammar %q previously failed to load", name)
	}
	gl.mu.RUnlock()

	gl.mu.Lock()
	defer gl.mu.Unlock()

	if lang, ok := gl.grammars[name]; ok {
		return lang, nil
	}
	if _, failed := gl.failed[name]; failed {
		return 0, errors.Wrapf(ErrUnavailable, "grammar %q previously failed to load", name)
	}

	lang, err := gl.loadLibrary(name)
	if err != nil {
		gl.failed[name] = struct{}{}
		return 0, err
	}

	gl.grammars[name] = lang
	return lang, nil
}

// Available reports whether a grammar's shared library exists in a trusted
// directory, without loading it.
func (gl *GrammarLoader) Available(name string) bool {
	if validateGrammarName(name) != nil {
		return false
	}
	gl.mu.RLock()
	if _, ok := gl.grammars[name]; ok {
		gl.mu.RUnlock()
		return true
	}
	if _, failed := gl.failed[name]; failed {
		gl.mu.RUnlock()
		return false
	}
	gl.mu.RUnlock()
	_, err := gl.findLibrary(name)
	return err == nil
}

func validateGrammarName(name string) error {
	if !validGrammarName.MatchString(name) {
		return errors.Errorf("invalid grammar name %q: must be 1-64 lowercase alphanumeric chars", name)
	}
	return nil
}

func (gl *GrammarLoader) loadLibrary(name string) (TSLanguage, error) {
	libPath, err := gl.findLibrary(name)
	if err != nil {
		return 0, err
	}

	lib, err := purego.Dlopen(libPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, errors.Wrapf(err, "dlopen %s", libPath)
	}

	var langFunc func() unsafe.Pointer
	purego.RegisterLibFunc(&langFunc, lib, "tree_sitter_"+name)

	ptr := langFunc()
	if ptr == nil {
		purego.Dlclose(lib)
		return 0, errors.Errorf("tree_sitter_%s returned null", name)
	}

	return TSLanguage(uintptr(ptr)), nil
}

func (gl *GrammarLoader) findLibrary(name string) (string, error) {
	libName := grammarLibName(name)

	for _, dir := range gl.trustedDirs {
		if err := validateDirectory(dir); err != nil {
			continue
		}
		path := filepath.Join(dir, libName)
		if err := validateLibraryFile(path, dir); err != nil {
			continue
		}
		return path, nil
	}

	return "", errors.Wrapf(ErrUnavailable, "grammar %q not found in trusted directories", name)
}

func validateDirectory(dir string) error {
	realDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(realDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.Errorf("not a directory: %s", dir)
	}
	if isWorldWritable(info) {
		return errors.Errorf("world-writable directory rejected: %s", dir)
	}
	return nil
}

func validateLibraryFile(path, trustedDir string) error {
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return err
	}

	realTrusted, err := filepath.EvalSymlinks(trustedDir)
	if err != nil {
		return err
	}
	if !isSubpath(realPath, realTrusted) {
		return errors.Errorf("path escapes trusted directory: %s", path)
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.Errorf("expected file, got directory: %s", path)
	}
	if isWorldWritable(info) {
		return errors.Errorf("world-writable file rejected: %s", path)
	}
	return nil
}

func isSubpath(child, parent string) bool {
	child = filepath.Clean(child)
	parent = filepath.Clean(parent)
	if child == parent {
		return true
	}
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}

func isWorldWritable(info os.FileInfo) bool {
	if runtime.GOOS == "windows" {
		return false
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	return stat.Mode&0002 != 0
}

func grammarLibName(name string) string {
	switch runtime.GOOS {
	case "darwin":
		return "libtree-sitter-" + name + ".dylib"
	case "windows":
		return "tree-sitter-" + name + ".dll"
	default:
		return "libtree-sitter-" + name + ".so"
	}
}

// LoadGrammar loads a grammar using the process-wide loader.
func LoadGrammar(name string) (TSLanguage, error) {
	return globalLoader.Load(name)
}

// IsGrammarAvailable reports whether the process-wide loader can find a
// grammar on disk.
func IsGrammarAvailable(name string) bool {
	return globalLoader.Available(name)
}
