package uploads

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyBody is returned when the request carries no payload at all.
	ErrEmptyBody = errors.New("empty request body")
	// ErrMalformedEncoding is returned when a base64 transport body does
	// not decode.
	ErrMalformedEncoding = errors.New("malformed base64 payload")
)

// DecodePayload turns a raw request body plus its declared transport
// encoding and content type into the submitted document bytes.
//
// Precedence follows the transport: a base64-encoded body is decoded as-is,
// a multipart/form-data body goes through the part scanner, anything else
// is taken verbatim.
func DecodePayload(body []byte, isBase64Encoded bool, contentType string) ([]byte, error) {
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}

	if isBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(body)))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
		}
		if len(decoded) == 0 {
			return nil, ErrEmptyBody
		}
		return decoded, nil
	}

	if strings.Contains(strings.ToLower(contentType), "multipart/form-data") {
		return scanMultipart(body, contentType), nil
	}

	return body, nil
}

type scanState int

const (
	seekingBoundary scanState = iota
	inHeaders
	inBody
)

// scanMultipart pulls the first file part out of a multipart/form-data body
// held fully in memory. It is a best-effort single-file extractor driven by
// an explicit state machine over the byte slice: no nested multipart, no
// multi-file requests, and content containing the literal boundary marker
// is split at the marker. On any framing problem it degrades to returning
// the raw body rather than failing the upload.
func scanMultipart(body []byte, contentType string) []byte {
	boundary := boundaryParam(contentType)
	if boundary == "" {
		return body
	}

	marker := []byte("--" + boundary)
	closing := []byte("--")

	state := seekingBoundary
	pos := 0
	var part []byte

	for {
		switch state {
		case seekingBoundary:
			idx := bytes.Index(body[pos:], marker)
			if idx < 0 {
				return body
			}
			pos += idx + len(marker)
			if bytes.HasPrefix(body[pos:], closing) {
				// Closing boundary reached without a matching part.
				return body
			}
			if end := bytes.Index(body[pos:], marker); end >= 0 {
				part = body[pos : pos+end]
				pos += end
			} else {
				part = body[pos:]
				pos = len(body)
			}
			state = inHeaders
		case inHeaders:
			headers, content, found := splitPartHeaders(part)
			if !found || !isFilePart(headers) {
				state = seekingBoundary
				continue
			}
			part = content
			state = inBody
		case inBody:
			return trimPartContent(part)
		}
	}
}

// boundaryParam extracts the boundary parameter from a multipart content
// type header, stripping optional surrounding quotes.
func boundaryParam(contentType string) string {
	for _, param := range strings.Split(contentType, ";") {
		param = strings.TrimSpace(param)
		if rest, ok := cutPrefixFold(param, "boundary="); ok {
			boundary := strings.TrimSpace(rest)
			if len(boundary) >= 2 && strings.HasPrefix(boundary, `"`) && strings.HasSuffix(boundary, `"`) {
				boundary = boundary[1 : len(boundary)-1]
			}
			return boundary
		}
	}
	return ""
}

// splitPartHeaders separates a part's header block from its content at the
// first blank line, accepting both CRLF and bare LF framing.
func splitPartHeaders(part []byte) (headers, content []byte, found bool) {
	crlf := bytes.Index(part, []byte("\r\n\r\n"))
	lf := bytes.Index(part, []byte("\n\n"))

	switch {
	case crlf >= 0 && (lf < 0 || crlf < lf):
		return part[:crlf], part[crlf+4:], true
	case lf >= 0:
		return part[:lf], part[lf+2:], true
	default:
		return nil, nil, false
	}
}

// isFilePart reports whether the header block describes the uploaded file:
// either a filename parameter or a PDF content type declaration.
func isFilePart(headers []byte) bool {
	lower := bytes.ToLower(headers)
	return bytes.Contains(lower, []byte("filename")) ||
		bytes.Contains(lower, []byte("application/pdf"))
}

// trimPartContent removes the single line ending preceding the next
// boundary marker and any trailing closing marker.
func trimPartContent(content []byte) []byte {
	switch {
	case bytes.HasSuffix(content, []byte("\r\n")):
		content = content[:len(content)-2]
	case bytes.HasSuffix(content, []byte("\n")):
		content = content[:len(content)-1]
	}
	trimmed := bytes.TrimRight(content, " \t\r\n")
	if bytes.HasSuffix(trimmed, []byte("--")) {
		return trimmed[:len(trimmed)-2]
	}
	return content
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
