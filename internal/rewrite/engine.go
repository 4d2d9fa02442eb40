package rewrite

import (
	"bytes"
	"strings"

	"github.com/Furry-Xiyi/TranslatorApp/pkg/model"
)

// ContentType 返回资源类型对应的响应头
func ContentType(kind model.ResourceKind) string {
	switch kind {
	case model.ResourceStylesheet:
		return "text/css; charset=utf-8"
	default:
		return "text/html; charset=utf-8"
	}
}

// Engine 按规则表对页面资源做字节级改写。无内部状态，
// 主题由调用方每次传入
type Engine struct {
	rules []SiteRule
}

// New 用给定规则表构造引擎，nil 表示使用内置规则
func New(rules []SiteRule) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Rules 返回引擎当前的规则表
func (e *Engine) Rules() []SiteRule {
	return e.rules
}

// Match 返回命中主机名的规则，未命中时返回 nil
func (e *Engine) Match(host string, kind model.ResourceKind) *SiteRule {
	for i := range e.rules {
		if e.rules[i].Matches(host, kind) {
			return &e.rules[i]
		}
	}
	return nil
}

// Transform 按资源类型分派改写，返回改写后的字节
func (e *Engine) Transform(rule *SiteRule, kind model.ResourceKind, body []byte, dark bool) []byte {
	switch kind {
	case model.ResourceStylesheet:
		return e.TransformStylesheet(rule, body)
	default:
		return e.TransformDocument(rule, body, dark)
	}
}

// TransformDocument 在 <head> 起始标签之后插入注入块。
// 找不到 <head> 时原样返回，宁可漏改也不产出破损页面
func (e *Engine) TransformDocument(rule *SiteRule, body []byte, dark bool) []byte {
	idx := indexCaseInsensitive(body, "<head")
	if idx < 0 {
		return body
	}
	end := bytes.IndexByte(body[idx:], '>')
	if end < 0 {
		return body
	}
	insertAt := idx + end + 1

	var block bytes.Buffer
	block.WriteString("\n<style data-origin=\"translator-app\">\n")
	block.WriteString(rule.HideCSS)
	if dark && rule.DarkCSS != "" {
		block.WriteString("\n")
		block.WriteString(rule.DarkCSS)
	}
	block.WriteString("\n</style>\n")
	if rule.InjectColorSchemeMeta {
		if dark {
			block.WriteString(`<meta name="color-scheme" content="dark">` + "\n")
		} else {
			block.WriteString(`<meta name="color-scheme" content="light">` + "\n")
		}
	}

	out := make([]byte, 0, len(body)+block.Len())
	out = append(out, body[:insertAt]...)
	out = append(out, block.Bytes()...)
	out = append(out, body[insertAt:]...)

	if dark && rule.InjectDarkAttr {
		out = injectHTMLAttr(out, ` data-theme="dark"`)
	}
	return out
}

// TransformStylesheet 在原样式表末尾追加隐藏规则
func (e *Engine) TransformStylesheet(rule *SiteRule, body []byte) []byte {
	out := make([]byte, 0, len(body)+len(rule.HideCSS)+2)
	out = append(out, body...)
	out = append(out, '\n')
	out = append(out, rule.HideCSS...)
	return out
}

// injectHTMLAttr 给 <html> 起始标签补充属性，找不到时原样返回
func injectHTMLAttr(body []byte, attr string) []byte {
	idx := indexCaseInsensitive(body, "<html")
	if idx < 0 {
		return body
	}
	// 属性插在标签名之后
	insertAt := idx + len("<html")
	out := make([]byte, 0, len(body)+len(attr))
	out = append(out, body[:insertAt]...)
	out = append(out, attr...)
	out = append(out, body[insertAt:]...)
	return out
}

// indexCaseInsensitive 查找子串位置，忽略 ASCII 大小写
func indexCaseInsensitive(body []byte, sub string) int {
	lower := bytes.ToLower(body)
	return bytes.Index(lower, []byte(strings.ToLower(sub)))
}

func hostHasSuffix(host, suffix string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	suffix = strings.ToLower(suffix)
	if host == suffix {
		return true
	}
	return strings.HasSuffix(host, "."+suffix)
}
