package rewrite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Furry-Xiyi/TranslatorApp/pkg/model"
)

func TestMatch(t *testing.T) {
	e := New(nil)

	tests := []struct {
		name string
		host string
		kind model.ResourceKind
		want string
	}{
		{name: "youdao root", host: "youdao.com", kind: model.ResourceDocument, want: "youdao"},
		{name: "youdao subdomain", host: "dict.youdao.com", kind: model.ResourceDocument, want: "youdao"},
		{name: "case insensitive", host: "Dict.YouDao.COM", kind: model.ResourceStylesheet, want: "youdao"},
		{name: "bing cn", host: "cn.bing.com", kind: model.ResourceDocument, want: "bing"},
		{name: "suffix cannot be partial", host: "notyoudao.com", kind: model.ResourceDocument, want: ""},
		{name: "unknown host", host: "example.com", kind: model.ResourceDocument, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.Match(tt.host, tt.kind)
			if tt.want == "" {
				assert.Nil(t, r)
				return
			}
			require.NotNil(t, r)
			assert.Equal(t, tt.want, r.Name)
		})
	}
}

func TestTransformDocumentInjectsAfterHead(t *testing.T) {
	e := New(nil)
	rule := e.Match("dict.youdao.com", model.ResourceDocument)
	require.NotNil(t, rule)

	doc := []byte(`<!DOCTYPE html><html><head><title>x</title></head><body><p>正文</p></body></html>`)
	out := e.TransformDocument(rule, doc, false)

	s := string(out)
	headEnd := strings.Index(s, "<head>") + len("<head>")
	styleAt := strings.Index(s, "<style")
	require.Greater(t, styleAt, 0)
	// 注入块紧跟在 <head> 起始标签之后，位于原有子节点之前
	assert.Less(t, styleAt, strings.Index(s, "<title>"))
	assert.GreaterOrEqual(t, styleAt, headEnd)
	// 原有内容原样保留
	assert.Contains(t, s, "<p>正文</p>")
	assert.Contains(t, s, "display: none !important")
}

func TestTransformDocumentHeadWithAttributes(t *testing.T) {
	e := New(nil)
	rule := e.Match("dict.youdao.com", model.ResourceDocument)
	require.NotNil(t, rule)

	doc := []byte(`<html><HEAD lang="zh"><meta charset="utf-8"></HEAD><body></body></html>`)
	out := string(e.TransformDocument(rule, doc, false))
	// 属性和大小写不影响定位
	assert.Less(t, strings.Index(out, "<style"), strings.Index(out, "<meta"))
}

func TestTransformDocumentNoHeadFailOpen(t *testing.T) {
	e := New(nil)
	rule := e.Match("dict.youdao.com", model.ResourceDocument)
	require.NotNil(t, rule)

	tests := []struct {
		name string
		doc  string
	}{
		{name: "no head at all", doc: `<html><body>bare</body></html>`},
		{name: "unterminated head tag", doc: `<html><head`},
		{name: "empty document", doc: ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.TransformDocument(rule, []byte(tt.doc), true)
			// 找不到注入点时原样返回
			assert.Equal(t, tt.doc, string(out))
		})
	}
}

func TestTransformDocumentDark(t *testing.T) {
	e := New(nil)

	youdao := e.Match("dict.youdao.com", model.ResourceDocument)
	require.NotNil(t, youdao)
	doc := []byte(`<html><head></head><body></body></html>`)

	light := string(e.TransformDocument(youdao, doc, false))
	assert.NotContains(t, light, "color-scheme: dark")
	dark := string(e.TransformDocument(youdao, doc, true))
	assert.Contains(t, dark, "color-scheme: dark")
	assert.Contains(t, dark, "#0f0f0f")

	bing := e.Match("cn.bing.com", model.ResourceDocument)
	require.NotNil(t, bing)
	bdark := string(e.TransformDocument(bing, doc, true))
	assert.Contains(t, bdark, `<html data-theme="dark">`)
	assert.Contains(t, bdark, `<meta name="color-scheme" content="dark">`)
	blight := string(e.TransformDocument(bing, doc, false))
	assert.NotContains(t, blight, `data-theme="dark"`)
	assert.Contains(t, blight, `<meta name="color-scheme" content="light">`)
}

func TestBingSearchFormKeptInDOM(t *testing.T) {
	e := New(nil)
	bing := e.Match("cn.bing.com", model.ResourceDocument)
	require.NotNil(t, bing)

	out := string(e.TransformDocument(bing, []byte(`<html><head></head><body></body></html>`), false))
	// 搜索表单只能移出视口，display:none 会破坏页面脚本
	formAt := strings.Index(out, "#sb_form")
	require.Greater(t, formAt, 0)
	formBlock := out[formAt:strings.Index(out[formAt:], "}")+formAt]
	assert.NotContains(t, formBlock, "display: none")
	assert.Contains(t, formBlock, "left: -9999px")
	assert.Contains(t, formBlock, "pointer-events: none")

	// 分页导航要重新声明为可见
	assert.Contains(t, out, ".b_pag")
	assert.Contains(t, out, "display: block !important")
	assert.Contains(t, out, "visibility: visible !important")
}

func TestTransformStylesheetAppends(t *testing.T) {
	e := New(nil)
	rule := e.Match("dict.youdao.com", model.ResourceStylesheet)
	require.NotNil(t, rule)

	orig := ".word { color: red; }"
	out := string(e.TransformStylesheet(rule, []byte(orig)))
	// 原样式在前，隐藏规则追加在后
	assert.True(t, strings.HasPrefix(out, orig))
	assert.Contains(t, out, "display: none !important")
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/html; charset=utf-8", ContentType(model.ResourceDocument))
	assert.Equal(t, "text/css; charset=utf-8", ContentType(model.ResourceStylesheet))
}
