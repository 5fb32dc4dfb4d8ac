package outfile

import "os"

// WriteRenderedFile writes rendered HTML to outPath, always overwriting
// any existing file.
func WriteRenderedFile(outPath string, html []byte) error {
	return os.WriteFile(outPath, html, 0o644)
}
