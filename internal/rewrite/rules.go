package rewrite

import "github.com/Furry-Xiyi/TranslatorApp/pkg/model"

// ThemeCookie 随主题写入站点的 Cookie，部分站点的服务端渲染依赖它
type ThemeCookie struct {
	Name      string
	Domain    string
	DarkValue string
	// LightValue 为空表示浅色时删除该 Cookie
	LightValue string
}

// SiteRule 单个站点的重写规则。规则表是配置数据，选择器列表
// 随站点改版调整，不属于结构契约
type SiteRule struct {
	Name       string
	HostSuffix string

	// HideCSS 隐藏站点自带导航、搜索栏、页脚的规则块，
	// 同时追加到文档和样式表
	HideCSS string

	// DarkCSS 深色模式下额外注入文档的覆盖样式
	DarkCSS string

	// InjectColorSchemeMeta 为真时文档注入 color-scheme meta 标记，
	// 跟随当前主题取 dark 或 light
	InjectColorSchemeMeta bool

	// InjectDarkAttr 深色模式下给 <html> 标签补充 data-theme="dark"
	InjectDarkAttr bool

	// ReloadOnThemeChange 主题切换时整页刷新，让服务端按主题重新渲染
	ReloadOnThemeChange bool

	Cookie *ThemeCookie
}

// Matches 判断主机名是否命中该站点，大小写不敏感的后缀匹配
func (r *SiteRule) Matches(host string, kind model.ResourceKind) bool {
	if kind != model.ResourceDocument && kind != model.ResourceStylesheet {
		return false
	}
	return hostHasSuffix(host, r.HostSuffix)
}

// 有道词典隐藏规则
const youdaoHideCSS = `
header, .top, .top-nav, .top-nav-wrap, .nav, .nav-bar, .nav-wrap, .top-banner,
.header, .header-light,
.search-wrapper, .search-area, .search-bar-container, .search-bar-bg,
header .search, header .search-wrapper, header .search-box,
.search-box, .search-container, .search-bar-wrap,
footer, .footer, .yd-footer, .global-footer, .ft, .ft-wrap, .ft-container,
.footer-light, .light-footer, .m-ft, .m-footer, .footer-wrap,
[class*='footer'], [id*='footer'], [class*='copyright'], [id*='copyright'] {
    display: none !important;
}
`

const youdaoDarkCSS = `
:root{ color-scheme: dark; }
html, body{
  background:#0f0f0f !important;
  color:#ddd !important;
}
a{ color:#6fb1ff !important; }
`

// 必应词典隐藏规则。sb_form 不能 display:none，
// 页面脚本假定它存在于 DOM 中，只能移出视口
const bingHideCSS = `
/* 顶部大块隐藏 */
#b_header, #sw_hdr, .b_scopebar, .b_logo {
  display: none !important;
}

/* 保留 sb_form，但移出视口+不可见，避免破坏脚本 */
#sb_form {
  position: absolute !important;
  left: -9999px !important;
  top: auto !important;
  width: 1px !important;
  height: 1px !important;
  overflow: hidden !important;
  opacity: 0 !important;
  pointer-events: none !important;
}

/* 底部隐藏 */
#b_footer, .b_footnote, #b_pageFeedback, #b_feedback,
[role='contentinfo'], footer {
  display: none !important;
}

/* 分页保留 */
.b_pag, nav[aria-label*='Pagination'], nav[role='navigation'][aria-label*='页'] {
  display: block !important;
  visibility: visible !important;
}
`

// DefaultRules 返回内置规则表
func DefaultRules() []SiteRule {
	return []SiteRule{
		{
			Name:       "youdao",
			HostSuffix: "youdao.com",
			HideCSS:    youdaoHideCSS,
			DarkCSS:    youdaoDarkCSS,
		},
		{
			Name:                  "bing",
			HostSuffix:            "bing.com",
			HideCSS:               bingHideCSS,
			InjectColorSchemeMeta: true,
			InjectDarkAttr:        true,
			ReloadOnThemeChange:   true,
			Cookie: &ThemeCookie{
				Name:      "DARKSCHEMEOVR",
				Domain:    ".bing.com",
				DarkValue: "1",
			},
		},
	}
}
