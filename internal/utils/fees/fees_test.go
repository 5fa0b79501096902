package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaohire/wallet_backend/internal/apperrors"
	"github.com/jaohire/wallet_backend/internal/core/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestForChannel(t *testing.T) {
	for _, channel := range domain.KnownGateways {
		_, err := ForChannel(channel)
		assert.NoError(t, err, "every known gateway has a fee schedule")
	}

	_, err := ForChannel(domain.Gateway("paypal"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestFee(t *testing.T) {
	tests := []struct {
		name    string
		channel domain.Gateway
		net     string
		want    string
	}{
		{"promptpay flat fee", domain.GatewayPromptPay, "1000", "25"},
		{"bank transfer flat fee", domain.GatewayBankTransfer, "250000", "25"},
		{"truemoney 3.6 percent", domain.GatewayTrueMoney, "1000", "36"},
		{"truemoney rounds half-up", domain.GatewayTrueMoney, "100.10", "3.6"},
		{"truemoney fractional", domain.GatewayTrueMoney, "123.45", "4.44"}, // 4.4442 -> 4.44
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched, err := ForChannel(tt.channel)
			require.NoError(t, err)
			got := sched.Fee(d(tt.net))
			assert.True(t, got.Equal(d(tt.want)), "want fee %s, got %s", tt.want, got)
		})
	}
}

func TestMaxNetWithdrawable(t *testing.T) {
	tests := []struct {
		name    string
		channel domain.Gateway
		balance string
		want    string
	}{
		{"promptpay leaves fee headroom", domain.GatewayPromptPay, "1000", "975"},
		{"promptpay capped at channel max", domain.GatewayPromptPay, "200000", "100000"},
		{"promptpay balance below fee", domain.GatewayPromptPay, "10", "0"},
		{"bank transfer capped", domain.GatewayBankTransfer, "600000", "500000"},
		{"truemoney percent headroom", domain.GatewayTrueMoney, "1036", "1000"},
		{"truemoney capped", domain.GatewayTrueMoney, "40000", "30000"},
		{"zero balance", domain.GatewayTrueMoney, "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched, err := ForChannel(tt.channel)
			require.NoError(t, err)
			got := sched.MaxNetWithdrawable(d(tt.balance))
			assert.True(t, got.Equal(d(tt.want)), "want %s, got %s", tt.want, got)
		})
	}
}

// The quoted maximum must itself be withdrawable: net plus fee never exceeds
// the balance it was quoted against.
func TestMaxNetWithdrawableIsAffordable(t *testing.T) {
	balances := []string{"100", "123.45", "999.99", "1036", "5000.01", "29999.99"}
	for _, channel := range domain.KnownGateways {
		sched, err := ForChannel(channel)
		require.NoError(t, err)
		for _, raw := range balances {
			balance := d(raw)
			net := sched.MaxNetWithdrawable(balance)
			if net.IsZero() {
				continue
			}
			total := net.Add(sched.Fee(net))
			assert.True(t, total.LessThanOrEqual(balance),
				"%s: net %s + fee exceeds balance %s", channel, net, balance)
		}
	}
}
