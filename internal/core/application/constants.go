package application

// trade sides, also used as operation labels
const (
	SideSellBase  = "sell_base"
	SideSellQuote = "sell_quote"
	SideBuyBase   = "buy_base"
)

// operation labels
const (
	opDeposit   = "deposit"
	opReset     = "reset"
	opFlashLoan = "flash_loan"
)

// flash loan outcomes
const (
	FlashLoanRepaid  = "repaid"
	FlashLoanSwapped = "swapped"
	FlashLoanFailed  = "failed"
)
