package di

import "time"

func days(d float64) time.Duration {
	return time.Duration(d * float64(24*time.Hour))
}
