package trading

import "errors"

// Every error carries the exact message shown to the player; the client
// displays these verbatim.
var (
	ErrInvalidTradeType     = errors.New("Invalid trade type")
	ErrInvalidShares        = errors.New("Shares must be a positive whole number")
	ErrTradingDisabled      = errors.New("Trading is currently disabled")
	ErrInsufficientShares   = errors.New("Not enough shares available")
	ErrInsufficientFunds    = errors.New("Insufficient funds")
	ErrInsufficientHoldings = errors.New("Not enough shares to sell")
	ErrCompanyNotFound      = errors.New("Company not found")
	ErrUserNotFound         = errors.New("User not found")
)
