package dailysentence

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/Furry-Xiyi/TranslatorApp/internal/logger"
	"github.com/Furry-Xiyi/TranslatorApp/pkg/model"
)

// Fetcher 抓取每日一句并内嵌配图。任何失败都降级为占位记录，
// 对外永不返回错误
type Fetcher struct {
	url          string
	http         *resty.Client
	imageTimeout time.Duration
	log          logger.Logger
}

// NewFetcher 创建抓取器
func NewFetcher(url string, requestTimeout, imageTimeout time.Duration, l logger.Logger) *Fetcher {
	if l == nil {
		l = logger.NewNop()
	}
	if requestTimeout <= 0 {
		requestTimeout = 8 * time.Second
	}
	if imageTimeout <= 0 {
		imageTimeout = 5 * time.Second
	}
	return &Fetcher{
		url:          url,
		http:         resty.New().SetTimeout(requestTimeout),
		imageTimeout: imageTimeout,
		log:          l,
	}
}

// Fallback 接口不可用时展示的占位记录
func Fallback() model.DailySentence {
	return model.DailySentence{
		Caption: "每日一句",
		English: "每日一句暂不可用",
		Date:    time.Now().Format("2006-01-02"),
	}
}

// Fetch 抓取当天的每日一句。失败时返回占位记录，不返回错误
func (f *Fetcher) Fetch(ctx context.Context) model.DailySentence {
	resp, err := f.http.R().SetContext(ctx).Get(f.url)
	if err != nil {
		f.log.Warn("获取每日一句失败", "error", err)
		return Fallback()
	}
	if resp.IsError() {
		f.log.Warn("每日一句接口返回错误状态", "status", resp.StatusCode())
		return Fallback()
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		f.log.Warn("每日一句响应不是合法 JSON")
		return Fallback()
	}
	root := gjson.ParseBytes(body)
	english := root.Get("content").String()
	if english == "" {
		f.log.Warn("每日一句响应缺少正文")
		return Fallback()
	}

	// 高清图优先，缺失时退回普通图
	picture := root.Get("picture2").String()
	if picture == "" {
		picture = root.Get("picture").String()
	}

	s := model.DailySentence{
		Caption:     root.Get("caption").String(),
		Date:        root.Get("dateline").String(),
		English:     english,
		ChineseNote: root.Get("note").String(),
		Picture:     picture,
		TTSURL:      root.Get("tts").String(),
	}
	if s.Caption == "" {
		s.Caption = "每日一句"
	}
	if s.Picture != "" {
		if data, ok := f.inlineImage(ctx, s.Picture); ok {
			s.Picture = data
		}
	}
	return s
}

// inlineImage 下载配图并转为 data URI，失败时保留原地址
func (f *Fetcher) inlineImage(ctx context.Context, rawURL string) (string, bool) {
	ictx, cancel := context.WithTimeout(ctx, f.imageTimeout)
	defer cancel()
	resp, err := f.http.R().SetContext(ictx).Get(rawURL)
	if err != nil || resp.IsError() || len(resp.Body()) == 0 {
		f.log.Debug("每日一句配图下载失败", "url", rawURL)
		return "", false
	}
	mime := imageMIME(rawURL)
	encoded := base64.StdEncoding.EncodeToString(resp.Body())
	return fmt.Sprintf("data:%s;base64,%s", mime, encoded), true
}

func imageMIME(rawURL string) string {
	lower := strings.ToLower(rawURL)
	// 去掉查询串再看扩展名
	if i := strings.IndexByte(lower, '?'); i >= 0 {
		lower = lower[:i]
	}
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
