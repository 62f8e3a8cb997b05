package widget

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LocalFile is a File backed by a path on disk
type LocalFile struct {
	path     string
	mimeType string
}

// NewLocalFile stats path and determines its MIME type from the extension,
// falling back to sniffing the first bytes
func NewLocalFile(path string) (*LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}
	if info.IsDir() {
		return nil, errors.Errorf("%s is a directory", path)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType, err = sniff(path)
		if err != nil {
			return nil, err
		}
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	return &LocalFile{path: path, mimeType: mimeType}, nil
}

func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", errors.Wrap(err, "failed to read file")
	}
	return http.DetectContentType(buf[:n]), nil
}

func (f *LocalFile) Name() string {
	return filepath.Base(f.path)
}

func (f *LocalFile) Type() string {
	return f.mimeType
}

func (f *LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}
