package staking

const (
	SecondsPerDay  = 86_400
	SecondsPerYear = 365 * SecondsPerDay

	// Fee rate is expressed in basis points out of 1000 - ie: 50 = 5%.
	FeeDenominator = 1000

	// Pool APY is fixed-point percent x10 - ie: 120 = 12%.  The reward
	// divisor folds the x10 scale and the /100 of percent into one factor.
	ApyDenominator = 1000
)
