package fiscal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDigit(t *testing.T) {
	assert.Equal(t, 6, checkDigit("123"))
	assert.Equal(t, 1, checkDigit("5"))
}

func TestBuildAccessKey(t *testing.T) {
	key, err := BuildAccessKey(AccessKeyParams{
		State:        "SP",
		IssuedAt:     time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
		Document:     "12.345.678/0001-95",
		Series:       "1",
		Number:       1234,
		EmissionType: 1,
		RandomCode:   87654321,
	})
	require.NoError(t, err)

	assert.Len(t, key, AccessKeyLength)
	assert.Equal(t, "35", key[0:2])
	assert.Equal(t, "2607", key[2:6])
	assert.Equal(t, "12345678000195", key[6:20])
	assert.Equal(t, "55", key[20:22])
	assert.Equal(t, "001", key[22:25])
	assert.Equal(t, "000001234", key[25:34])
	assert.Equal(t, "1", key[34:35])
	assert.Equal(t, "87654321", key[35:43])
	assert.True(t, ValidateAccessKey(key))

	tampered := key[:43] + string(rune('0'+(int(key[43]-'0')+1)%10))
	assert.False(t, ValidateAccessKey(tampered))
}

func TestBuildAccessKeyValidation(t *testing.T) {
	base := AccessKeyParams{
		State: "SP", IssuedAt: time.Now(), Document: "12345678000195",
		Series: "1", Number: 1, EmissionType: 1,
	}

	bad := base
	bad.State = "XX"
	_, err := BuildAccessKey(bad)
	assert.Error(t, err)

	bad = base
	bad.Document = "123"
	_, err = BuildAccessKey(bad)
	assert.Error(t, err)

	bad = base
	bad.Series = "1000"
	_, err = BuildAccessKey(bad)
	assert.Error(t, err)

	bad = base
	bad.Number = 0
	_, err = BuildAccessKey(bad)
	assert.Error(t, err)
}

func TestRandomCodeRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		c := RandomCode()
		assert.GreaterOrEqual(t, c, 0)
		assert.Less(t, c, 100000000)
	}
}
