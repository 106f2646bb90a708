package middleware

import (
	"strings"

	"github.com/haierkeys/fast-vault-sync-service/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// TranslatorKey gin.Context 中存储翻译器的键，pkg/app.BindAndValid 读取
const TranslatorKey = "trans"

// LangWithTranslator 创建带翻译器的语言中间件（支持依赖注入）
// 语言来源优先级：query lang -> header lang -> Accept-Language
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		} else if s = c.GetHeader("Accept-Language"); len(s) != 0 {
			lang, _, _ = strings.Cut(s, ",")
		}

		lang = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lang), "-", "_"))

		trans, found := uni.GetTranslator(lang)
		if !found {
			trans, _ = uni.GetTranslator("en")
		}
		c.Set(TranslatorKey, trans)

		_ = code.SetGlobalDefaultLang(lang)

		c.Next()
	}
}
