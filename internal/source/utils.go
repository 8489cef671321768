package source

import (
	"bytes"
	"path/filepath"
	"sort"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeCRLF заменяет \r\n на \n, одиночные \r не трогает.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}

func removeBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, utf8BOM) {
		return content[len(utf8BOM):], true
	}
	return content, false
}

// buildLineIndex records the offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) //nolint:gosec // FileSet.Add bounds the content size
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// number of newlines strictly before off
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line + 1), Col: off - startOff + 1} //nolint:gosec // line <= len(lineIdx)
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
