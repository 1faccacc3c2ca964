package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// 客户端日期入参接受的格式（按顺序尝试）。
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// ParseDate 解析客户端提交的日期字符串并规范化为 time.Time。
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", s)
}
