package srafetch

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

var ErrBadKey = errors.New("bad key")

const (
	// DefaultCacheDir under the user's home.
	DefaultCacheDir = ".srafetchcache"
	// CompressThreshold is the payload size above which cache entries are
	// gzip compressed on disk.
	CompressThreshold = 1024
)

// gzipMagic marks a compressed cache entry.
var gzipMagic = []byte{0x1f, 0x8b}

// DirCache stores raw response payloads under a root directory. The key
// must be a valid relative path. Entries written before the beginning of
// the current day count as stale.
type DirCache struct {
	directory string
}

func NewDirCache(directory string) (c DirCache, err error) {
	abs, err := filepath.Abs(directory)
	if err != nil {
		return c, err
	}
	return DirCache{abs}, err
}

func (c DirCache) cleanKey(k string) (s string, err error) {
	s = filepath.Clean(path.Join(c.directory, k))
	// the separator keeps sibling directories sharing a name prefix out
	if !strings.HasPrefix(s, c.directory+string(os.PathSeparator)) {
		return "", ErrBadKey
	}
	return s, nil
}

// Set writes a payload atomically, compressed past the threshold.
func (c DirCache) Set(k string, v []byte) error {
	pth, err := c.cleanKey(k)
	if err != nil {
		return err
	}
	dir := path.Dir(pth)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if len(v) >= CompressThreshold {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(v); err != nil {
			return err
		}
		if err := gz.Close(); err != nil {
			return err
		}
		v = buf.Bytes()
	}
	return writeFileAtomic(pth, v, 0644)
}

// Get reads a payload back, transparently decompressing it.
func (c DirCache) Get(k string) ([]byte, error) {
	pth, err := c.cleanKey(k)
	if err != nil {
		return nil, err
	}
	b, err := ioutil.ReadFile(pth)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(b, gzipMagic) {
		return b, nil
	}
	gz, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	return ioutil.ReadAll(gz)
}

// Fresh reports whether an entry exists and was written today.
func (c DirCache) Fresh(k string) bool {
	pth, err := c.cleanKey(k)
	if err != nil {
		return false
	}
	fi, err := os.Stat(pth)
	if err != nil {
		return false
	}
	return !fi.ModTime().Before(staleAfter())
}

// writeFileAtomic writes data to a temporary file first and moves it into
// place, so readers never observe partial entries.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir, name := filepath.Split(filename)
	file, err := ioutil.TempFile(dir, name)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(file.Name())
		return err
	}
	if err := file.Chmod(perm); err != nil {
		file.Close()
		os.Remove(file.Name())
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return err
	}
	return os.Rename(file.Name(), filename)
}

// staleAfter is a hook for tests that need to fake entry age.
var staleAfter = func() time.Time { return now.BeginningOfDay() }
