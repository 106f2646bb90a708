// Package synctoken encodes and decodes the versioned sync and cursor tokens.
//
// A token is base64("<version>:<payload>"). Version 2 carries epoch seconds
// with an optional microsecond fraction ("1616164633.241568"), version 1
// carries a legacy date string. Only version 2 is ever produced.
package synctoken

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/haierkeys/fast-vault-sync-service/pkg/timex"

	"github.com/pkg/errors"
)

// Version 令牌协议版本
type Version int

const (
	V1 Version = 1
	V2 Version = 2
)

const microsPerSecond = 1_000_000

var (
	// ErrMissingVersion 令牌缺少可识别的版本前缀
	ErrMissingVersion = errors.New("sync token is missing version part")
	// ErrMalformedToken 令牌版本可识别但内容无法解析
	ErrMalformedToken = errors.New("sync token is malformed")
)

// Token 解码后的令牌
type Token struct {
	Version Version
	// Micro is the last-seen timestamp in microseconds
	// Micro 最后同步时间（微秒）
	Micro int64
}

// Encode 将微秒时间戳编码为 v2 令牌
func Encode(micro int64) string {
	return base64.StdEncoding.EncodeToString([]byte("2:" + FormatSeconds(micro)))
}

// FormatSeconds renders microseconds as decimal seconds without trailing zeros
// FormatSeconds 将微秒格式化为十进制秒，去掉末尾的 0
func FormatSeconds(micro int64) string {
	sign := ""
	if micro < 0 {
		sign = "-"
		micro = -micro
	}
	secs := micro / microsPerSecond
	frac := micro % microsPerSecond
	if frac == 0 {
		return sign + strconv.FormatInt(secs, 10)
	}
	f := strings.TrimRight(strconv.FormatInt(frac+microsPerSecond, 10)[1:], "0")
	return sign + strconv.FormatInt(secs, 10) + "." + f
}

// Decode parses a token. Any input that is not a well formed v1 or v2 token
// yields an error wrapping ErrMissingVersion or ErrMalformedToken.
// Decode 严格解码令牌，任何格式错误都返回错误，不做默认回退
func Decode(token string) (Token, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		// 兼容未填充的 base64
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(token), "="))
		if err != nil {
			return Token{}, errors.Wrap(ErrMalformedToken, "invalid base64")
		}
	}

	version, payload, found := strings.Cut(string(raw), ":")
	if !found {
		return Token{}, ErrMissingVersion
	}

	switch version {
	case "1":
		micro, err := timex.ParseDateToMicro(payload)
		if err != nil {
			return Token{}, errors.Wrap(ErrMalformedToken, err.Error())
		}
		return Token{Version: V1, Micro: micro}, nil
	case "2":
		micro, err := ParseSeconds(payload)
		if err != nil {
			return Token{}, err
		}
		return Token{Version: V2, Micro: micro}, nil
	default:
		return Token{}, ErrMissingVersion
	}
}

// ParseSeconds converts decimal seconds to microseconds without going
// through floating point, so "T" decodes to exactly T*1e6.
// ParseSeconds 不经过浮点数将十进制秒转换为微秒
func ParseSeconds(s string) (int64, error) {
	s = strings.TrimSpace(s)
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" && !hasFrac {
		return 0, errors.Wrap(ErrMalformedToken, "empty timestamp")
	}

	negative := strings.HasPrefix(intPart, "-")
	if negative {
		intPart = intPart[1:]
	}

	var secs int64
	if intPart != "" {
		if !isDigits(intPart) {
			return 0, errors.Wrapf(ErrMalformedToken, "invalid seconds %q", s)
		}
		v, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return 0, errors.Wrapf(ErrMalformedToken, "invalid seconds %q", s)
		}
		secs = v
	}

	var frac int64
	if hasFrac {
		if fracPart == "" || !isDigits(fracPart) {
			return 0, errors.Wrapf(ErrMalformedToken, "invalid fraction %q", s)
		}
		// 微秒以下的精度截断
		if len(fracPart) > 6 {
			fracPart = fracPart[:6]
		}
		fracPart += strings.Repeat("0", 6-len(fracPart))
		v, _ := strconv.ParseInt(fracPart, 10, 64)
		frac = v
	}

	micro := secs*microsPerSecond + frac
	if negative {
		micro = -micro
	}
	return micro, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
