// Package validator 自定义 gin 结构体验证器
package validator

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CustomValidator implements binding.StructValidator on top of validator/v10
// CustomValidator 基于 validator/v10 实现 gin 的 StructValidator
type CustomValidator struct {
	Once     sync.Once
	Validate *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct 校验结构体，非结构体直接放行
func (v *CustomValidator) ValidateStruct(obj interface{}) error {
	if kindOfData(obj) == reflect.Struct {
		v.lazyinit()
		if err := v.Validate.Struct(obj); err != nil {
			return err
		}
	}
	return nil
}

func (v *CustomValidator) Engine() interface{} {
	v.lazyinit()
	return v.Validate
}

func (v *CustomValidator) lazyinit() {
	v.Once.Do(func() {
		v.Validate = validator.New()
		v.Validate.SetTagName("binding")
		Register(v.Validate)
	})
}

func kindOfData(data interface{}) reflect.Kind {
	value := reflect.ValueOf(data)
	valueType := value.Kind()

	if valueType == reflect.Ptr {
		valueType = value.Elem().Kind()
	}
	return valueType
}

// RegisterCustom 注册自定义校验规则
//   - uuid_canonical: 36 位规范格式 UUID
//   - permission: read / write / admin
func RegisterCustom() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	Register(v)
}

// Register 在指定的 validator 上注册自定义规则
func Register(v *validator.Validate) {
	_ = v.RegisterValidation("uuid_canonical", func(fl validator.FieldLevel) bool {
		return IsCanonicalUUID(fl.Field().String())
	})
	_ = v.RegisterValidation("permission", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "read", "write", "admin":
			return true
		}
		return false
	})
}

// IsCanonicalUUID 判断是否为 xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx 格式的 UUID
func IsCanonicalUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

var _ binding.StructValidator = (*CustomValidator)(nil)
