// Package timex 提供微秒精度的时间类型与时钟
package timex

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ISOLayout 与客户端约定的 ISO 8601 格式（毫秒精度，UTC）
const ISOLayout = "2006-01-02T15:04:05.000Z"

// dateLayouts 解析日期字符串时依次尝试的格式
var dateLayouts = []string{
	time.RFC3339Nano,
	ISOLayout,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"2006-01-02",
}

// Time wraps time.Time and serializes as an ISO 8601 UTC string
// Time 对 time.Time 的封装，JSON 序列化为 ISO 8601 UTC 字符串
type Time time.Time

// Now returns the current time
// Now 返回当前时间
func Now() Time {
	return Time(time.Now())
}

// FromMicro builds a Time from a microsecond Unix timestamp
// FromMicro 根据微秒时间戳构造 Time
func FromMicro(us int64) Time {
	return Time(time.UnixMicro(us).UTC())
}

func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}

// String 以 ISOLayout 格式输出
func (t Time) String() string {
	return time.Time(t).UTC().Format(ISOLayout)
}

// MarshalJSON 实现 json.Marshaler
func (t Time) MarshalJSON() ([]byte, error) {
	if time.Time(t).IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON 实现 json.Unmarshaler
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = Time(time.Time{})
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*t = Time(parsed)
	return nil
}

// ParseDate parses a date string in any of the accepted layouts
// ParseDate 按支持的格式依次尝试解析日期字符串
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// 去掉 JS Date.toString() 结尾的时区名称，如 " (Coordinated Universal Time)"
	if i := strings.Index(s, " ("); i > 0 {
		s = s[:i]
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized date format: %q", s)
}

// ParseDateToMicro 解析日期字符串并返回微秒时间戳
func ParseDateToMicro(s string) (int64, error) {
	parsed, err := ParseDate(s)
	if err != nil {
		return 0, err
	}
	return parsed.UnixMicro(), nil
}
