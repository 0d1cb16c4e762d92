// Package fingerprint normalizes raw User-Agent strings into the
// (user agent, OS, device) triple used for device-trust matching.
package fingerprint

import (
	"github.com/mileusna/useragent"

	"github.com/dkoval/auth-backend/internal/domain"
)

const unknown = "Unknown"

// Resolver turns a raw User-Agent header into a normalized fingerprint.
// Implementations must be pure and stateless.
type Resolver interface {
	Resolve(rawUserAgent string) domain.Fingerprint
}

// UAResolver resolves fingerprints with a user-agent parser.
type UAResolver struct{}

// NewUAResolver creates a new user-agent based resolver.
func NewUAResolver() *UAResolver {
	return &UAResolver{}
}

// Resolve parses the raw header. Fields the parser cannot determine come
// back as "Unknown" rather than empty so that two unparseable agents still
// compare equal field-by-field.
func (r *UAResolver) Resolve(rawUserAgent string) domain.Fingerprint {
	ua := useragent.Parse(rawUserAgent)

	fp := domain.Fingerprint{
		UserAgent: ua.Name,
		OS:        ua.OS,
		Device:    deviceClass(ua),
	}
	if fp.UserAgent == "" {
		fp.UserAgent = unknown
	}
	if fp.OS == "" {
		fp.OS = unknown
	}
	return fp
}

func deviceClass(ua useragent.UserAgent) string {
	switch {
	case ua.Device != "":
		return ua.Device
	case ua.Mobile:
		return "Mobile"
	case ua.Tablet:
		return "Tablet"
	case ua.Desktop:
		return "Desktop"
	case ua.Bot:
		return "Bot"
	default:
		return unknown
	}
}
