package settlement

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaohire/wallet_backend/internal/apperrors"
)

var defaultDate = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	payload := []byte("Transaction Ref,Amount,Date\nTXN-1,100,2025-03-01\nTXN-2, 200.505\n")

	rows, err := Parse(payload, defaultDate)

	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "TXN-1", rows[0].Reference)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), rows[0].Date)

	// Amounts are rounded to 2dp; missing dates fall back to the settlement date.
	assert.Equal(t, "TXN-2", rows[1].Reference)
	assert.True(t, rows[1].Amount.Equal(decimal.RequireFromString("200.51")))
	assert.Equal(t, defaultDate, rows[1].Date)
}

func TestParseWithoutHeader(t *testing.T) {
	payload := []byte("TXN-1,100\nTXN-2,50.25\n")

	rows, err := Parse(payload, defaultDate)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "TXN-1", rows[0].Reference)
	assert.Equal(t, "TXN-2", rows[1].Reference)
}

func TestParseSkipsBlankLines(t *testing.T) {
	payload := []byte("ref,amount\nTXN-1,100\n\nTXN-2,200\n")

	rows, err := Parse(payload, defaultDate)

	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"bad amount", "ref,amount\nTXN-1,not-a-number\n"},
		{"too few fields", "ref,amount\nTXN-1\n"},
		{"empty reference", "ref,amount\n ,100\n"},
		{"bad date", "ref,amount,date\nTXN-1,100,01/03/2025\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.payload), defaultDate)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestParseEmptyPayload(t *testing.T) {
	rows, err := Parse([]byte(""), defaultDate)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestChecksum(t *testing.T) {
	payload := []byte("TXN-1,100\n")

	sum := Checksum(payload)

	assert.Len(t, sum, 64, "SHA-256 hex digest is 64 characters")
	assert.Equal(t, sum, Checksum(payload), "checksum is deterministic")
	assert.NotEqual(t, sum, Checksum([]byte("TXN-1,101\n")))
}
