package code

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secureattend/internal/apperr"
)

func TestGenerateRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		c, err := Generate()
		require.NoError(t, err)
		require.Len(t, c, 6)
		n, err := strconv.Atoi(c)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestValidateNoActiveCode(t *testing.T) {
	err := Validate(nil, "123456", time.Now(), DefaultValidity)
	assert.ErrorIs(t, err, apperr.ErrNoActiveCode)
}

func TestValidateWindowBoundary(t *testing.T) {
	issued := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	ac := &ActiveCode{Code: "123456", IssuedAt: issued}

	// 4:59 after issuance is still inside the window.
	err := Validate(ac, "123456", issued.Add(4*time.Minute+59*time.Second), DefaultValidity)
	assert.NoError(t, err)

	// Exactly 5:00 after issuance is already expired.
	err = Validate(ac, "123456", issued.Add(5*time.Minute), DefaultValidity)
	assert.ErrorIs(t, err, apperr.ErrCodeExpired)
}

func TestValidateMismatch(t *testing.T) {
	issued := time.Now()
	ac := &ActiveCode{Code: "123456", IssuedAt: issued}
	err := Validate(ac, "654321", issued.Add(time.Minute), DefaultValidity)
	assert.ErrorIs(t, err, apperr.ErrCodeMismatch)
}

func TestValidateExpiryBeforeMismatch(t *testing.T) {
	issued := time.Now().Add(-time.Hour)
	ac := &ActiveCode{Code: "123456", IssuedAt: issued}
	err := Validate(ac, "000000", time.Now(), DefaultValidity)
	assert.ErrorIs(t, err, apperr.ErrCodeExpired)
}
