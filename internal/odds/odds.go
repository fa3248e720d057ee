// Package odds converts between American moneyline odds and implied
// probability. Pure functions, no side effects; used only to compare
// simulator output against market-quoted lines.
package odds

import (
	"fmt"
	"math"
)

// ImpliedProbability converts an American moneyline to its implied win
// probability. Negative lines quote the favorite: -150 implies
// 150/(100+150) = 0.6. Non-negative lines quote the underdog: +200 implies
// 100/(100+200) = 1/3.
func ImpliedProbability(line float64) float64 {
	if line < 0 {
		line = -line
		return line / (100 + line)
	}
	return 100 / (100 + line)
}

// Moneyline converts a win probability in (0,1) to an American moneyline
// string. Probabilities above one half produce a negative (favorite) line,
// the rest a positive (underdog) line.
func Moneyline(p float64) string {
	if p > 0.5 {
		return fmt.Sprintf("-%d", int(math.Round(100*p/(1-p))))
	}
	return fmt.Sprintf("+%d", int(math.Round(100/p-100)))
}

// MoneylineValue is Moneyline without the string formatting, for callers
// that need the signed numeric line.
func MoneylineValue(p float64) float64 {
	if p > 0.5 {
		return -100 * p / (1 - p)
	}
	return 100/p - 100
}
