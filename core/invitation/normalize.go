package invitation

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidCodeFormat means no plausible code could be extracted; not retryable.
	ErrInvalidCodeFormat = errors.New("invalid code format")

	plainCodeRegex    = regexp.MustCompile(`^[A-Za-z0-9]{4,12}$`)
	embeddedCodeRegex = regexp.MustCompile(`[A-Za-z0-9]{4,12}`)
)

// Normalize turns raw user input into a canonical invitation-code candidate.
// Accepted shapes, in order:
//   - a URL carrying a `code` query parameter (shared join links, QR payloads)
//   - a plain 4-12 character alphanumeric code
//   - the first 4-12 character alphanumeric run embedded anywhere in the input
//     (QR payloads with surrounding text)
//
// The result is always uppercased and stripped of whitespace. Normalize is
// pure: identical input yields identical output.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrInvalidCodeFormat
	}

	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Host != "" {
		if code := u.Query().Get("code"); code != "" {
			s = strings.TrimSpace(code)
		}
	}

	if plainCodeRegex.MatchString(s) {
		return strings.ToUpper(s), nil
	}
	if run := embeddedCodeRegex.FindString(s); run != "" {
		return strings.ToUpper(run), nil
	}
	return "", ErrInvalidCodeFormat
}
