package dice

// ProbAtLeast2D10 returns the exact probability that 2d10 sums to at least
// threshold, computed by enumerating the 100 equally likely outcome pairs.
// The result is exact, not simulated; the decision agent compares these
// values to choose stances, so determinism matters.
//
// Postcondition: Returns 1.0 for threshold <= 2, 0.0 for threshold > 20,
// and is monotonically non-increasing in threshold.
func ProbAtLeast2D10(threshold int) float64 {
	valid := 0
	for a := 1; a <= 10; a++ {
		for b := 1; b <= 10; b++ {
			if a+b >= threshold {
				valid++
			}
		}
	}
	return float64(valid) / 100.0
}

// ContestWinProb returns the exact probability that 2d10 + margin strictly
// exceeds an opposing 2d10, by enumerating all 10^4 outcome combinations.
// Ties lose: at margin 0 the result is below 0.5.
//
// The attack pipeline resolves contested evasion as
// "defender total >= attacker total evades", so the attacker wins only on a
// strict excess; margin is the attacker's flat advantage
// (accuracy + modifiers - evasion modifier).
func ContestWinProb(margin int) float64 {
	valid := 0
	for a := 1; a <= 10; a++ {
		for b := 1; b <= 10; b++ {
			for c := 1; c <= 10; c++ {
				for d := 1; d <= 10; d++ {
					if (a+b)+margin > (c + d) {
						valid++
					}
				}
			}
		}
	}
	return float64(valid) / 10000.0
}
