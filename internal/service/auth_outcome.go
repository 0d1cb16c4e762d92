package service

import (
	"time"

	"github.com/dkoval/auth-backend/internal/domain"
)

// LoginOutcome is the terminal state of one login attempt.
type LoginOutcome int

const (
	// OutcomeAuthenticated means a session was granted.
	OutcomeAuthenticated LoginOutcome = iota
	// OutcomeChallengeVerification means the account is unverified and an
	// email challenge was issued.
	OutcomeChallengeVerification
	// OutcomeChallengeNewDevice means the fingerprint matched no trusted
	// device and an email challenge was issued.
	OutcomeChallengeNewDevice
)

// IsChallenge reports whether the outcome requires out-of-band confirmation.
func (o LoginOutcome) IsChallenge() bool {
	return o == OutcomeChallengeVerification || o == OutcomeChallengeNewDevice
}

// LoginResult is what one login attempt produced. Tokens and Device are
// populated only for OutcomeAuthenticated; both challenge outcomes are
// rendered identically to the caller.
type LoginResult struct {
	Outcome         LoginOutcome
	Device          *domain.Device
	AccessToken     string
	RefreshToken    string
	RefreshTokenTTL time.Duration
}
