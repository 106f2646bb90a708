// Package convert 提供结构体之间的字段复制
package convert

import (
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// CopyStruct copies same-named fields from src into dst (dst must be a pointer)
// CopyStruct 按同名字段将 src 复制到 dst（dst 必须为指针）
func CopyStruct(dst, src interface{}) error {
	if err := copier.CopyWithOption(dst, src, copier.Option{IgnoreEmpty: false, DeepCopy: true}); err != nil {
		return errors.Wrap(err, "copy struct failed")
	}
	return nil
}

// CopySlice 将 src 切片中的每个元素复制为新的 *T
func CopySlice[T any, S any](src []S) ([]*T, error) {
	out := make([]*T, 0, len(src))
	for i := range src {
		dst := new(T)
		if err := CopyStruct(dst, src[i]); err != nil {
			return nil, err
		}
		out = append(out, dst)
	}
	return out, nil
}
