package util

import (
	"strconv"
	"strings"
)

var sizeUnits = []struct {
	suffix     string
	multiplier int64
}{
	{"GB", 1024 * 1024 * 1024},
	{"MB", 1024 * 1024},
	{"KB", 1024},
	{"B", 1},
}

// ParseSize parses "10MB", "512KB", "1024B" or a bare byte count
// ParseSize 将大小字符串解析为字节数，无法解析时返回 defaultSize
func ParseSize(sizeStr string, defaultSize int64) int64 {
	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))
	if sizeStr == "" {
		return defaultSize
	}

	var multiplier int64 = 1
	for _, u := range sizeUnits {
		if strings.HasSuffix(sizeStr, u.suffix) {
			multiplier = u.multiplier
			sizeStr = strings.TrimSuffix(sizeStr, u.suffix)
			break
		}
	}

	size, err := strconv.ParseInt(strings.TrimSpace(sizeStr), 10, 64)
	if err != nil || size <= 0 {
		return defaultSize
	}
	return size * multiplier
}
