package importer

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadDump reads a dump file, gunzipping it when the name ends in .gz.
func ReadDump(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gunzip %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dump %s: %w", path, err)
	}
	return data, nil
}
