package screen

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Validate rejects empty names and negative sizes.
func (f SelectedFile) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrInvalidFile.WithCause(fmt.Errorf("file name is empty"))
	}
	if f.Size < 0 {
		return ErrInvalidFile.WithCause(fmt.Errorf("size %d is negative", f.Size))
	}
	return nil
}

// FileFromPath builds a SelectedFile from filesystem metadata only.
// The MIME type is guessed from the extension and may be empty.
func FileFromPath(path string) (SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SelectedFile{}, ErrInvalidFile.WithCause(err)
	}
	if info.IsDir() {
		return SelectedFile{}, ErrInvalidFile.WithCause(fmt.Errorf("%s is a directory", path))
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}

	return SelectedFile{
		Name:     info.Name(),
		Size:     info.Size(),
		MIMEType: mimeType,
	}, nil
}
