package pagemeta

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"

	"github.com/Furry-Xiyi/TranslatorApp/internal/logger"
)

// 标题抓取只需要文档头部，超过该大小直接截断
const maxBodySize = 256 * 1024

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher 抓取词典页面的 <title>，用于历史记录展示
type Fetcher struct {
	http *resty.Client
	log  logger.Logger
}

// NewFetcher 创建抓取器
func NewFetcher(timeout time.Duration, l logger.Logger) *Fetcher {
	if l == nil {
		l = logger.NewNop()
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Fetcher{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", browserUA),
		log: l,
	}
}

// FetchTitle 抓取页面标题，失败时返回空串
func (f *Fetcher) FetchTitle(ctx context.Context, rawURL string) string {
	resp, err := f.http.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		f.log.Debug("页面标题抓取失败", "url", rawURL, "error", err)
		return ""
	}
	if resp.IsError() {
		return ""
	}
	body := resp.Body()
	if len(body) > maxBodySize {
		body = body[:maxBodySize]
	}
	return Title(body)
}

// Title 从 HTML 字节中提取 <title> 文本
func Title(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}
