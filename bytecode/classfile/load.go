package classfile

import (
	"archive/zip"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cs-au-dk/jnames/bytecode"

	"github.com/pkg/errors"
)

// ReadJar decodes every class in a jar, in entry name order. Entries that fail
// to decode are logged and skipped.
func ReadJar(path string) ([]*bytecode.Class, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening jar %s", path)
	}
	defer zr.Close()

	files := make([]*zip.File, 0, len(zr.File))
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, ".class") && !f.FileInfo().IsDir() {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var classes []*bytecode.Class
	for _, f := range files {
		class, err := readZipEntry(f)
		if err != nil {
			log.Printf("Skipping %s!%s: %v", path, f.Name, err)
			continue
		}
		classes = append(classes, class)
	}
	return classes, nil
}

func readZipEntry(f *zip.File) (*bytecode.Class, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Parse(rc)
}

// ReadFile decodes a single .class file.
func ReadFile(path string) (*bytecode.Class, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	class, err := ParseBytes(buf)
	return class, errors.Wrapf(err, "decoding %s", path)
}

// ReadPath decodes a jar, a single class file, or every class file below a
// directory in lexical path order.
func ReadPath(path string) ([]*bytecode.Class, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	switch {
	case info.IsDir():
		var classes []*bytecode.Class
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(p, ".class") {
				return nil
			}
			class, err := ReadFile(p)
			if err != nil {
				log.Printf("Skipping %s: %v", p, err)
				return nil
			}
			classes = append(classes, class)
			return nil
		})
		return classes, errors.Wrapf(err, "walking %s", path)
	case strings.HasSuffix(path, ".jar"), strings.HasSuffix(path, ".zip"):
		return ReadJar(path)
	default:
		class, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		return []*bytecode.Class{class}, nil
	}
}
