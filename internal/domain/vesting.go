package domain

// Linear vesting over [start, end], timestamps in Unix milliseconds as
// reported by the investment certificate.

const msPerDay = 24 * 60 * 60 * 1000

// VestedAmount returns how many of totalTokens have vested at now.
// Division truncates; callers must not round up partial tokens.
func VestedAmount(totalTokens, vestingStart, vestingEnd, now int64) int64 {
	if now >= vestingEnd {
		return totalTokens
	}
	if now <= vestingStart {
		return 0
	}
	elapsed := now - vestingStart
	totalTime := vestingEnd - vestingStart
	return totalTokens * elapsed / totalTime
}

// VestingProgress returns the vested share as a percentage.
func VestingProgress(totalTokens, vested int64) float64 {
	if totalTokens <= 0 {
		return 0
	}
	return float64(vested) / float64(totalTokens) * 100
}

// DaysUntilFullyVested rounds up, so 1ms remaining still counts as a day.
func DaysUntilFullyVested(vestingEnd, now int64) int64 {
	if now >= vestingEnd {
		return 0
	}
	return (vestingEnd - now + msPerDay - 1) / msPerDay
}
