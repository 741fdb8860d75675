package sqlite

import "time"

func unixTime(ts int64) time.Time {
	return time.Unix(ts, 0)
}
