// Package settlement parses gateway settlement files into typed rows.
//
// The consumed format is comma-separated rows of (reference, amount[, date]).
// An optional header row is detected heuristically; rows without a date take
// the settlement date supplied by the caller.
package settlement

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jaohire/wallet_backend/internal/apperrors"
	"github.com/jaohire/wallet_backend/internal/core/domain"
	"github.com/jaohire/wallet_backend/internal/utils/money"
)

const dateLayout = "2006-01-02"

var headerWords = []string{"ref", "transaction", "amount"}

// Checksum returns the SHA-256 hex digest of a raw settlement payload.
func Checksum(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Parse reads a raw settlement payload into external rows. defaultDate is
// used for rows that omit the date column.
func Parse(raw []byte, defaultDate time.Time) ([]domain.ExternalSettlementRow, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows := make([]domain.ExternalSettlementRow, 0)
	lineNo := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed settlement file at line %d: %v", apperrors.ErrValidation, lineNo+1, err)
		}
		lineNo++

		if lineNo == 1 && isHeader(record) {
			continue
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: settlement line %d has %d fields, want at least 2", apperrors.ErrValidation, lineNo, len(record))
		}

		ref := strings.TrimSpace(record[0])
		if ref == "" {
			return nil, fmt.Errorf("%w: settlement line %d has an empty reference", apperrors.ErrValidation, lineNo)
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: settlement line %d has a bad amount %q", apperrors.ErrValidation, lineNo, record[1])
		}

		date := defaultDate
		if len(record) >= 3 && strings.TrimSpace(record[2]) != "" {
			date, err = time.Parse(dateLayout, strings.TrimSpace(record[2]))
			if err != nil {
				return nil, fmt.Errorf("%w: settlement line %d has a bad date %q", apperrors.ErrValidation, lineNo, record[2])
			}
		}

		rows = append(rows, domain.ExternalSettlementRow{
			Reference: ref,
			Amount:    money.Round2(amount),
			Date:      date,
		})
	}
	return rows, nil
}

// isHeader reports whether the first record of a file looks like a column
// header rather than data. Gateways are inconsistent about including one, so
// we look for any of the usual column words.
func isHeader(record []string) bool {
	for _, field := range record {
		lower := strings.ToLower(strings.TrimSpace(field))
		for _, word := range headerWords {
			if strings.Contains(lower, word) {
				return true
			}
		}
	}
	return false
}
