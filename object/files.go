package object

import (
	"os"

	imagelayout "github.com/wippyai/image-layout"
	"github.com/wippyai/image-layout/errors"
)

// ReadFile extracts input sections from an object file on disk.
func ReadFile(path string) ([]imagelayout.Section, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Load(path, err)
	}
	defer f.Close()
	return Read(f, path)
}

// ReadFiles extracts and concatenates sections from several object files,
// preserving file order.
func ReadFiles(paths []string) ([]imagelayout.Section, error) {
	var out []imagelayout.Section
	for _, path := range paths {
		secs, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, secs...)
	}
	return out, nil
}
