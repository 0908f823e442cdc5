package classfile

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/diversepwmeasurement/JWebAssembly/internal/j2werr"
)

// Discover resolves one library URL into a list of *.class entries. If url
// names a directory, every *.class file under it is matched with a
// doublestar glob (allowing richer patterns than a bare directory walk,
// e.g. "lib/**/*.class"); otherwise url is treated as a zip archive and
// every *.class entry inside it is returned.
func Discover(url string) ([]Entry, error) {
	info, err := os.Stat(stripGlobSuffix(url))
	if err == nil && info.IsDir() {
		return discoverDir(url)
	}
	if err == nil {
		return discoverArchive(url)
	}
	// url is a glob pattern, e.g. "lib/**/*.class", whose leading
	// directory could not be stat'ed; it is still handed to the glob
	// matcher.
	if strings.ContainsAny(url, "*?[") {
		return discoverDir(url)
	}
	return nil, &j2werr.IOFailure{Op: "discover " + url, Err: err}
}

// Entry is one discovered class-file location: a path to open and read,
// ready to be handed to the external class-file parser.
type Entry struct {
	// Path is a filesystem path for a directory-sourced entry, or
	// "archive!member" for an archive-sourced one.
	Path string
	Open func() ([]byte, error)
}

func stripGlobSuffix(url string) string {
	if i := strings.IndexAny(url, "*?["); i >= 0 {
		return filepath.Dir(url[:i])
	}
	return url
}

func discoverDir(root string) ([]Entry, error) {
	pattern := root
	if !strings.ContainsAny(root, "*?[") {
		pattern = filepath.ToSlash(filepath.Join(root, "**", "*.class"))
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, &j2werr.IOFailure{Op: "glob " + pattern, Err: err}
	}
	out := make([]Entry, 0, len(matches))
	for _, m := range matches {
		m := m
		out = append(out, Entry{
			Path: m,
			Open: func() ([]byte, error) { return os.ReadFile(m) },
		})
	}
	return out, nil
}

func discoverArchive(archivePath string) ([]Entry, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, &j2werr.IOFailure{Op: "open archive " + archivePath, Err: err}
	}
	defer r.Close()

	var out []Entry
	for _, f := range r.File {
		if !strings.HasSuffix(f.Name, ".class") {
			continue
		}
		name := f.Name
		out = append(out, Entry{
			Path: archivePath + "!" + name,
			Open: func() ([]byte, error) { return readZipEntry(archivePath, name) },
		})
	}
	return out, nil
}

// readZipEntry reopens the archive per read: a shielded inner stream, so an
// outer archive reader scoped to discovery time is never left open across
// the parse callback, and a parser-side close can't terminate anything
// discovery still needs.
func readZipEntry(archivePath, member string) ([]byte, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, &j2werr.IOFailure{Op: "reopen archive " + archivePath, Err: err}
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != member {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &j2werr.IOFailure{Op: "open entry " + member, Err: err}
		}
		defer rc.Close()
		buf, err := io.ReadAll(rc)
		if err != nil {
			return nil, &j2werr.IOFailure{Op: "read entry " + member, Err: err}
		}
		return buf, nil
	}
	return nil, &j2werr.IOFailure{Op: "entry not found " + member, Err: os.ErrNotExist}
}
