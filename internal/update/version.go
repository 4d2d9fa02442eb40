package update

import (
	"strconv"
	"strings"
)

// Version 四段式版本号。解析失败的标签记为零版本
type Version [4]int

// Normalize 把版本标签解析为四段版本号：
// 去掉前导 v，不足四段补零，非数字段或超过四段视为无效
func Normalize(tag string) Version {
	var v Version
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "v")
	tag = strings.TrimPrefix(tag, "V")
	if tag == "" {
		return v
	}
	parts := strings.Split(tag, ".")
	if len(parts) > 4 {
		return Version{}
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}
		}
		v[i] = n
	}
	return v
}

// Compare 比较两个版本，返回 -1/0/1
func (v Version) Compare(o Version) int {
	for i := 0; i < 4; i++ {
		if v[i] < o[i] {
			return -1
		}
		if v[i] > o[i] {
			return 1
		}
	}
	return 0
}

// IsZero 是否为零版本
func (v Version) IsZero() bool {
	return v == Version{}
}

func (v Version) String() string {
	parts := make([]string, 4)
	for i := 0; i < 4; i++ {
		parts[i] = strconv.Itoa(v[i])
	}
	return strings.Join(parts, ".")
}
