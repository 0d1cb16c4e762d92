package domain

import "time"

// Fingerprint is the normalized (user agent, OS, device) triple that
// identifies a client. Two fingerprints match only if all three fields are
// equal; a partial match is a different device.
type Fingerprint struct {
	UserAgent string `json:"user_agent"`
	OS        string `json:"os"`
	Device    string `json:"device"`
}

// Matches reports whether f and other are the same device fingerprint.
func (f Fingerprint) Matches(other Fingerprint) bool {
	return f.UserAgent == other.UserAgent && f.OS == other.OS && f.Device == other.Device
}

// Device is a per-user trust record for one client fingerprint. A device row
// is only created when the user completes an email challenge from that
// client, so a trusted device means "proved email control from this
// fingerprint".
type Device struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	IP          string    `json:"ip" db:"ip"`
	UserAgent   string    `json:"user_agent" db:"user_agent"`
	OS          string    `json:"os" db:"os"`
	Device      string    `json:"device" db:"device"`
	IsTrusted   bool      `json:"is_trusted" db:"is_trusted"`
	LastLoginAt time.Time `json:"last_login_at" db:"last_login_at"`
}

// Fingerprint returns the device's stored fingerprint triple.
func (d *Device) Fingerprint() Fingerprint {
	return Fingerprint{UserAgent: d.UserAgent, OS: d.OS, Device: d.Device}
}
