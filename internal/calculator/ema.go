package calculator

import "errors"

// CalculateEMA computes the exponential moving average with smoothing factor
// 2/(span+1), seeded at the oldest price and folded forward. Falls back to
// the arithmetic mean when fewer than span prices are available.
func CalculateEMA(prices []float64, span int) (float64, error) {
	if span <= 0 {
		return 0, errors.New("span must be positive")
	}
	if len(prices) < span {
		return mean(prices), nil
	}

	k := 2.0 / float64(span+1)
	ema := prices[0]
	for _, p := range prices[1:] {
		ema = p*k + ema*(1.0-k)
	}
	return ema, nil
}

func mean(prices []float64) float64 {
	if len(prices) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices))
}
