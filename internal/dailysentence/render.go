package dailysentence

import (
	"bytes"
	"html/template"

	"github.com/Furry-Xiyi/TranslatorApp/pkg/model"
)

// LoadingHTML 内容就绪前展示的加载占位页
const LoadingHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  html, body { height: 100%; margin: 0; display: flex; align-items: center; justify-content: center;
    font-family: "Segoe UI", "Microsoft YaHei", sans-serif; background: transparent; }
  .spinner { width: 28px; height: 28px; border: 3px solid rgba(127,127,127,.25);
    border-top-color: #4f8ef7; border-radius: 50%; animation: spin .8s linear infinite; }
  @keyframes spin { to { transform: rotate(360deg); } }
</style>
</head>
<body><div class="spinner"></div></body>
</html>`

var pageTmpl = template.Must(template.New("daily").Parse(`<!DOCTYPE html>
<html{{if .Dark}} data-theme="dark"{{end}}>
<head>
<meta charset="utf-8">
<style>
  :root { color-scheme: {{if .Dark}}dark{{else}}light{{end}}; }
  html, body { margin: 0; font-family: "Segoe UI", "Microsoft YaHei", sans-serif;
    background: {{if .Dark}}#1b1b1b{{else}}#fafafa{{end}};
    color: {{if .Dark}}#ddd{{else}}#222{{end}}; }
  .card { max-width: 680px; margin: 24px auto; padding: 0 16px; }
  .caption { font-size: 13px; opacity: .6; }
  .pic { width: 100%; border-radius: 12px; margin: 12px 0; display: block; }
  .en { font-size: 20px; line-height: 1.5; margin: 8px 0; }
  .note { font-size: 15px; opacity: .75; margin: 4px 0 12px; }
  .date { font-size: 12px; opacity: .5; }
</style>
</head>
<body>
<div class="card">
  <div class="caption">{{.Sentence.Caption}}</div>
  {{if .Picture}}<img class="pic" src="{{.Picture}}" alt="">{{end}}
  <div class="en">{{.Sentence.English}}</div>
  <div class="note">{{.Sentence.ChineseNote}}</div>
  <div class="date">{{.Sentence.Date}}</div>
</div>
</body>
</html>`))

// RenderHTML 把每日一句记录渲染为独立页面。
// 图片可能是 data URI，直接作为可信地址传入模板
func RenderHTML(s model.DailySentence, dark bool) (string, error) {
	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, struct {
		Sentence model.DailySentence
		Picture  template.URL
		Dark     bool
	}{Sentence: s, Picture: template.URL(s.Picture), Dark: dark})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
