package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "0.00", FormatPrice(0))
	assert.Equal(t, "500.00", FormatPrice(500))
	assert.Equal(t, "1,200.50", FormatPrice(1200.5))
	assert.Equal(t, "15,000.00", FormatPrice(15000))
	assert.Equal(t, "1,250,000.00", FormatPrice(1250000))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(3, 7, "operator")
	assert.NoError(t, err)

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, uint(7), claims.VendorID)
	assert.Equal(t, "operator", claims.Role)

	_, err = ParseToken(token + "tampered")
	assert.Error(t, err)
}
