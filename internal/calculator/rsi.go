package calculator

import "errors"

// CalculateRSI computes the RSI over the given period using simple averages
// of the last `period` price changes. Returns 50.0 if data is insufficient.
func CalculateRSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) <= period {
		return 50.0, nil // default when data insufficient
	}

	// Average gain/loss over the most recent `period` changes
	var avgGain, avgLoss float64
	for i := len(prices) - period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change // make positive
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	rsi := 100.0 - 100.0/(1.0+rs)
	return rsi, nil
}
