// Package code issues and validates time-limited attendance codes.
package code

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"secureattend/internal/apperr"
)

// TimeLayout is the second-precision format codes are stamped with.
const TimeLayout = "2006-01-02 15:04:05"

// DefaultValidity is how long a code stays accepted after issuance.
const DefaultValidity = 5 * time.Minute

// ActiveCode is the single currently valid code and its issuance time.
type ActiveCode struct {
	Code     string
	IssuedAt time.Time
}

// ExpiresAt returns the instant after which the code is rejected.
func (a ActiveCode) ExpiresAt(window time.Duration) time.Time {
	return a.IssuedAt.Add(window)
}

// Store persists the single active code and its append-only history.
type Store interface {
	// Save overwrites the active code and appends it to the history.
	// The two writes are independent; a history failure after a
	// successful active write leaves the stores diverged and is
	// reported, not rolled back.
	Save(ctx context.Context, ac ActiveCode) error
	// Active returns the current code, or nil when none was ever issued.
	Active(ctx context.Context) (*ActiveCode, error)
	// History returns all issued codes in issuance order.
	History(ctx context.Context) ([]ActiveCode, error)
}

// Generate draws a uniformly random code in [100000, 999999].
// Codes with a leading zero are excluded; the range is kept exactly as
// deployed and must not be widened without coordinating with clients.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(100000+n.Int64(), 10), nil
}

// Issue generates a fresh code, stamps it at second precision, and
// persists it through the store.
func Issue(ctx context.Context, store Store, now time.Time) (ActiveCode, error) {
	c, err := Generate()
	if err != nil {
		return ActiveCode{}, err
	}
	ac := ActiveCode{Code: c, IssuedAt: now.Truncate(time.Second)}
	if err := store.Save(ctx, ac); err != nil {
		return ActiveCode{}, err
	}
	return ac, nil
}

// Validate checks a submitted code against the active one. The validity
// window is closed-open: at exactly issued_at+window the code is already
// rejected.
func Validate(active *ActiveCode, submitted string, now time.Time, window time.Duration) error {
	if active == nil {
		return apperr.ErrNoActiveCode
	}
	if !now.Before(active.ExpiresAt(window)) {
		return apperr.ErrCodeExpired
	}
	if submitted != active.Code {
		return apperr.ErrCodeMismatch
	}
	return nil
}
