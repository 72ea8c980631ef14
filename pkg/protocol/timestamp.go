package protocol

import "time"

// UnixTimestampMS returns the current wall-clock time as milliseconds since
// the Unix epoch, the resolution every response timestamp uses.
func UnixTimestampMS() uint64 {
	return uint64(time.Now().UnixMilli())
}
