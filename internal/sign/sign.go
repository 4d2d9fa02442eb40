// Package sign 实现各翻译提供方要求的请求签名算法。
// 签名是对字符串的纯计算：相同输入必然得到相同输出，时间来源可注入。
package sign

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Clock 提供签名所需的时间来源，测试时可注入固定时钟
type Clock interface {
	Now() time.Time
}

// SystemClock 使用系统时间
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock 返回固定时间，用于签名复现
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Salt 生成一次性的盐值（毫秒时间戳）
func Salt(c Clock) string {
	return strconv.FormatInt(c.Now().UnixMilli(), 10)
}

// Curtime 生成有道签名所需的秒级时间戳
func Curtime(c Clock) string {
	return strconv.FormatInt(c.Now().Unix(), 10)
}

// Baidu 计算百度通用翻译的签名：MD5(appid + q + salt + 密钥)
func Baidu(appID, text, salt, secret string) string {
	sum := md5.Sum([]byte(appID + text + salt + secret))
	return hex.EncodeToString(sum[:])
}

// Youdao 计算有道 v3 签名：SHA256(appKey + truncate(q) + salt + curtime + 密钥)
func Youdao(appKey, text, salt, curtime, secret string) string {
	sum := sha256.Sum256([]byte(appKey + Truncate(text) + salt + curtime + secret))
	return hex.EncodeToString(sum[:])
}

// Truncate 按有道签名规则截断输入：长度不超过 20 时原样返回，
// 否则取前 10 个字符 + 长度十进制字符串 + 后 10 个字符。
// 长度按字符计，与签名校验方一致
func Truncate(q string) string {
	r := []rune(q)
	n := len(r)
	if n <= 20 {
		return q
	}
	return string(r[:10]) + strconv.Itoa(n) + string(r[n-10:])
}
