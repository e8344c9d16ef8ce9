// Package signature validates the coach signature image shown at the foot
// of a report. A signature travels as a base64 data URL so renderers can use
// it directly as an image source.
package signature

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// MaxBytes bounds the decoded image size.
const MaxBytes = 512 << 10

const (
	dataPrefix   = "data:"
	base64Suffix = ";base64"
)

// Accepted image types. Vector formats are excluded because they can carry
// script.
var mediaTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// Signature is a decoded signature image. The zero value means no signature.
type Signature struct {
	MediaType string
	Data      []byte
}

// IsZero reports whether s holds no image.
func (s Signature) IsZero() bool { return len(s.Data) == 0 }

// DataURL encodes s as a base64 data URL. It returns "" for the zero value.
func (s Signature) DataURL() string {
	if s.IsZero() {
		return ""
	}
	return dataPrefix + s.MediaType + base64Suffix + "," + base64.StdEncoding.EncodeToString(s.Data)
}

// New validates raw image bytes. The media type is sniffed from the content.
func New(data []byte) (Signature, error) {
	if len(data) == 0 {
		return Signature{}, fmt.Errorf("%w: empty image", ErrInvalidSignature)
	}
	if len(data) > MaxBytes {
		return Signature{}, fmt.Errorf("%w: %d bytes, limit %d", ErrSignatureTooLarge, len(data), MaxBytes)
	}
	mt := http.DetectContentType(data)
	if !slices.Contains(mediaTypes, mt) {
		return Signature{}, fmt.Errorf("%w: unsupported image type %q", ErrInvalidSignature, mt)
	}
	return Signature{MediaType: mt, Data: data}, nil
}

// Parse decodes a base64 data URL such as "data:image/png;base64,iVBO...".
// The declared type must match the decoded content.
func Parse(dataURL string) (Signature, error) {
	dataURL = strings.TrimSpace(dataURL)
	if len(dataURL) < len(dataPrefix) || !strings.EqualFold(dataURL[:len(dataPrefix)], dataPrefix) {
		return Signature{}, fmt.Errorf("%w: not a data URL", ErrInvalidSignature)
	}
	rest := dataURL[len(dataPrefix):]
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Signature{}, fmt.Errorf("%w: missing data", ErrInvalidSignature)
	}
	declared, ok := strings.CutSuffix(strings.ToLower(meta), base64Suffix)
	if !ok {
		return Signature{}, fmt.Errorf("%w: data URL is not base64", ErrInvalidSignature)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxBytes+3 {
		return Signature{}, fmt.Errorf("%w: limit %d bytes", ErrSignatureTooLarge, MaxBytes)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	s, err := New(data)
	if err != nil {
		return Signature{}, err
	}
	// Parameters such as ";name=sig.png" may precede ";base64".
	if mt, _, _ := strings.Cut(declared, ";"); mt != s.MediaType {
		return Signature{}, fmt.Errorf("%w: declared %q but content is %q", ErrInvalidSignature, mt, s.MediaType)
	}
	return s, nil
}
