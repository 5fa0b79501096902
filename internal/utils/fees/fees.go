package fees

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jaohire/wallet_backend/internal/apperrors"
	"github.com/jaohire/wallet_backend/internal/core/domain"
	"github.com/jaohire/wallet_backend/internal/utils/money"
)

// MinWithdrawal is the smallest net amount a user may withdraw, in THB.
var MinWithdrawal = decimal.NewFromInt(100)

// Schedule describes how withdrawal fees are computed for one payout channel.
// Exactly one of Fixed / Percent is non-zero.
type Schedule struct {
	Fixed   decimal.Decimal // flat fee in THB
	Percent decimal.Decimal // fraction of the net amount, e.g. 0.036 for 3.6%
	MaxNet  decimal.Decimal // channel cap on the net amount per withdrawal
}

var schedules = map[domain.Gateway]Schedule{
	domain.GatewayPromptPay: {
		Fixed:  decimal.NewFromInt(25),
		MaxNet: decimal.NewFromInt(100_000),
	},
	domain.GatewayBankTransfer: {
		Fixed:  decimal.NewFromInt(25),
		MaxNet: decimal.NewFromInt(500_000),
	},
	domain.GatewayTrueMoney: {
		Percent: decimal.NewFromFloat(0.036),
		MaxNet:  decimal.NewFromInt(30_000),
	},
}

// ForChannel returns the fee schedule for a payout channel.
func ForChannel(channel domain.Gateway) (Schedule, error) {
	sched, ok := schedules[channel]
	if !ok {
		return Schedule{}, fmt.Errorf("%w: unknown withdrawal channel %q", apperrors.ErrValidation, channel)
	}
	return sched, nil
}

// Fee computes the withdrawal fee for a net amount under this schedule,
// rounded half-up to 2 decimal places.
func (s Schedule) Fee(net decimal.Decimal) decimal.Decimal {
	if !s.Percent.IsZero() {
		return money.Round2(net.Mul(s.Percent))
	}
	return money.Round2(s.Fixed)
}

// MaxNetWithdrawable returns the largest net amount withdrawable through this
// channel given the current balance: the smaller of the channel cap and the
// balance headroom once the fee is accounted for.
func (s Schedule) MaxNetWithdrawable(balance decimal.Decimal) decimal.Decimal {
	var headroom decimal.Decimal
	if !s.Percent.IsZero() {
		headroom = money.Round2(balance.Div(decimal.NewFromInt(1).Add(s.Percent)))
		// Division rounding can overshoot by a cent; step down until the
		// total (net + fee) fits the balance.
		cent := decimal.New(1, -2)
		for headroom.IsPositive() && headroom.Add(s.Fee(headroom)).GreaterThan(balance) {
			headroom = headroom.Sub(cent)
		}
	} else {
		headroom = money.Round2(balance.Sub(s.Fixed))
	}
	if headroom.IsNegative() {
		headroom = decimal.Zero
	}
	if headroom.GreaterThan(s.MaxNet) {
		return s.MaxNet
	}
	return headroom
}
