package irclimate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	logMetadata = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
	logNumber   = regexp.MustCompile(`-?\d+`)
)

// ParseRawLog extracts a duration sequence from ESPHome log output such as
//
//	[12:00:01][I][remote.raw:041]: Received Raw: 9000, -4500, 650, -1600, ...
//
// Bracketed and parenthesized metadata is dropped before every remaining
// signed integer is collected in order.
func ParseRawLog(text string) []int32 {
	text = logMetadata.ReplaceAllString(text, " ")
	matches := logNumber.FindAllString(text, -1)

	out := make([]int32, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseInt(m, 10, 32)
		if err != nil {
			continue
		}
		out = append(out, int32(v))
	}
	return out
}

// FormatRaw renders durations comma separated, ten per line.
func FormatRaw(d []int32) string {
	var b strings.Builder
	for i, v := range d {
		b.WriteString(strconv.FormatInt(int64(v), 10))
		if i < len(d)-1 {
			b.WriteByte(',')
		}
		if (i+1)%10 == 0 && i < len(d)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
