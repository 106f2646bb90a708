package dao

// deref 将可空列转换为领域层的空字符串
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nullable 空字符串写为 NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
