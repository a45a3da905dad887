package entity

import "time"

// NowUnixMilli returns the current unix timestamp in milliseconds
func NowUnixMilli() int64 {
	return time.Now().UnixMilli()
}
