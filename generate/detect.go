package generate

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// number of bytes needed to detect file type
const headSize = 262

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

func (e srcEncoding) String() string {
	switch e {
	case encUTF8:
		return "UTF-8"
	case encUTF16BigEndian:
		return "UTF-16BE"
	case encUTF16LittleEndian:
		return "UTF-16LE"
	case encUTF32BigEndian:
		return "UTF-32BE"
	case encUTF32LittleEndian:
		return "UTF-32LE"
	default:
		return "unknown"
	}
}

// decoder returns transformation removing BOM and converting to UTF-8.
func (e srcEncoding) decoder() *encoding.Decoder {
	switch e {
	case encUTF8:
		return unicode.UTF8BOM.NewDecoder()
	case encUTF16BigEndian:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case encUTF16LittleEndian:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	case encUTF32BigEndian:
		return utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder()
	case encUTF32LittleEndian:
		return utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder()
	default:
		return nil
	}
}

// detectBOM checks for byte order mark. UTF-32 has to be checked first, its
// little endian mark starts with UTF-16 one.
func detectBOM(head []byte) srcEncoding {
	switch {
	case bytes.HasPrefix(head, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return encUTF32BigEndian
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE, 0x00, 0x00}):
		return encUTF32LittleEndian
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		return encUTF8
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		return encUTF16BigEndian
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		return encUTF16LittleEndian
	default:
		return encUnknown
	}
}

// sniffXML reports whether head looks like beginning of XML document.
func sniffXML(head []byte) (bool, srcEncoding) {
	enc := detectBOM(head)
	text := head
	if dec := enc.decoder(); dec != nil {
		// head may end in the middle of a character, use what was converted
		converted, _, _ := transform.Bytes(dec, head[:len(head)-len(head)%4])
		text = converted
	}
	text = bytes.TrimLeft(text, " \t\r\n")
	return bytes.HasPrefix(text, []byte("<")), enc
}

func readHead(r io.Reader) ([]byte, error) {
	head := make([]byte, headSize)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}

func readFileHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readHead(f)
}

func isArchiveFile(path string) (bool, error) {
	head, err := readFileHead(path)
	if err != nil {
		return false, err
	}
	return filetype.Is(head, "zip"), nil
}

func isDocumentFile(path string) (bool, srcEncoding, error) {
	head, err := readFileHead(path)
	if err != nil {
		return false, encUnknown, err
	}
	ok, enc := sniffXML(head)
	return ok, enc, nil
}

func isDocumentInArchive(f *zip.File) (bool, srcEncoding, error) {
	r, err := f.Open()
	if err != nil {
		return false, encUnknown, err
	}
	defer r.Close()

	head, err := readHead(r)
	if err != nil {
		return false, encUnknown, err
	}
	ok, enc := sniffXML(head)
	return ok, enc, nil
}

// selectReader converts Unicode streams with BOM to UTF-8, everything else is
// left for XML decoder to handle according to declared encoding.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	if dec := enc.decoder(); dec != nil {
		return transform.NewReader(r, dec)
	}
	return r
}
