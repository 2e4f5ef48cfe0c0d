package export

import "bytes"

// Byte order marks.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// bomFor returns the byte order mark for a canonical charset name, or nil
// when the charset has none. Plain UTF-16 is left out because its encoder
// writes its own mark.
func bomFor(canonical string) []byte {
	switch canonical {
	case "UTF-8":
		return bomUTF8
	case "UTF-16LE":
		return bomUTF16LE
	case "UTF-16BE":
		return bomUTF16BE
	default:
		return nil
	}
}

// stripBOM removes a leading UTF-8 byte order mark.
func stripBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, bomUTF8) {
		return content[len(bomUTF8):], true
	}
	return content, false
}
