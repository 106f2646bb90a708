package code

import (
	"errors"
	"strings"
	"sync/atomic"
)

// lang type, used to store English and Chinese text
// lang 类型，用来存储英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

const FALLBACK_LNG = "en"

var supportedLanguages = []string{"en", "zh_cn"}

// current default language // 当前默认语言
var lng atomic.Value

// GetMessage returns the message in the current language, falling back to English
// GetMessage 返回当前语言的消息，缺失时回退到英文
func (l lang) GetMessage() string {
	if GetGlobalDefaultLang() == "zh_cn" && l.zh_cn != "" {
		return l.zh_cn
	}
	return l.en
}

// GetSupportedLanguages 返回支持的语言列表
func GetSupportedLanguages() []string {
	return append([]string{}, supportedLanguages...)
}

// SetGlobalDefaultLang sets the global default language
// SetGlobalDefaultLang 设置全局默认语言，不支持的语言回退到英文
func SetGlobalDefaultLang(language string) error {
	language = strings.ToLower(strings.ReplaceAll(language, "-", "_"))
	if language == "zh" {
		language = "zh_cn"
	}
	for _, l := range supportedLanguages {
		if l == language {
			lng.Store(language)
			return nil
		}
	}
	lng.Store(FALLBACK_LNG)
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang 获取全局默认语言
func GetGlobalDefaultLang() string {
	if v, ok := lng.Load().(string); ok && v != "" {
		return v
	}
	return FALLBACK_LNG
}
