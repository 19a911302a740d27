// Package packager bundles a validated skill directory into a
// distributable .skill archive (zip format).
package packager

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillgrade/pkg/skill"
)

// Extension is the suffix of packaged skill archives.
const Extension = ".skill"

// skipPatterns excludes build byproducts and previously packaged
// archives from the bundle.
var skipPatterns = []string{
	"**/__pycache__/**",
	"**/*.pyc",
	"**/*" + Extension,
}

// Result describes a created archive.
type Result struct {
	// Path is the location of the written archive.
	Path string
	// Files lists the archive entries in the order they were added,
	// relative to the skill's parent directory.
	Files []string
}

// Package validates the skill at skillPath and zips it into output.
// An empty output defaults to "<name>.skill" in the current directory.
// Validation problems abort packaging.
func Package(ctx context.Context, skillPath, output string) (*Result, error) {
	sk, err := skill.Load(ctx, skillPath)
	if err != nil {
		return nil, err
	}
	if problems := skill.Validate(sk); len(problems) > 0 {
		return nil, errors.Errorf("skill failed validation: %s", strings.Join(problems, "; "))
	}

	root, err := filepath.Abs(skillPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve skill path")
	}
	name := filepath.Base(root)

	if output == "" {
		output = name + Extension
	}
	outPath, err := filepath.Abs(output)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve output path")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create archive")
	}
	defer out.Close()

	result := &Result{Path: outPath}
	zw := zip.NewWriter(out)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if path == outPath {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if skipEntry(filepath.ToSlash(rel)) {
			return nil
		}
		// Entries are rooted at the skill directory name so the archive
		// unpacks into a single folder.
		arcname := filepath.ToSlash(filepath.Join(name, rel))
		if err := addFile(zw, path, arcname); err != nil {
			return err
		}
		result.Files = append(result.Files, arcname)
		return nil
	})
	if walkErr != nil {
		zw.Close()
		os.Remove(outPath)
		return nil, errors.Wrap(walkErr, "failed to package skill")
	}

	if err := zw.Close(); err != nil {
		os.Remove(outPath)
		return nil, errors.Wrap(err, "failed to finalize archive")
	}
	return result, nil
}

func skipEntry(rel string) bool {
	for _, pattern := range skipPatterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func addFile(zw *zip.Writer, path, arcname string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = arcname
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
