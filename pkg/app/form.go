package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// ValidError 单个字段的校验错误
type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString 以 "key: message" 的形式输出，用于 WithDetails
func (v ValidErrors) ErrorsToString() string {
	parts := make([]string, 0, len(v))
	for _, err := range v {
		parts = append(parts, err.Key+": "+err.Message)
	}
	return strings.Join(parts, ", ")
}

func (v ValidErrors) MapsToString() map[string]string {
	out := make(map[string]string, len(v))
	for _, err := range v {
		out[err.Key] = err.Message
	}
	return out
}

// BindAndValid 绑定并校验请求参数，校验信息按请求语言翻译
func BindAndValid(c *gin.Context, v any) (bool, ValidErrors) {
	return translateBindError(c, c.ShouldBind(v))
}

// BindURIAndValid 绑定并校验路径参数
func BindURIAndValid(c *gin.Context, v any) (bool, ValidErrors) {
	return translateBindError(c, c.ShouldBindUri(v))
}

func translateBindError(c *gin.Context, err error) (bool, ValidErrors) {
	if err == nil {
		return true, nil
	}

	var errs ValidErrors
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs = append(errs, &ValidError{Key: "body", Message: err.Error()})
		return false, errs
	}

	trans, _ := c.Value("trans").(ut.Translator)
	for _, fe := range verrs {
		msg := fe.Error()
		if trans != nil {
			msg = fe.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: fe.Field(), Message: msg})
	}
	return false, errs
}
