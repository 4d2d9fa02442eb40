// Package translate 将三个互不兼容的翻译接口归一化为统一的 translate 操作。
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"github.com/Furry-Xiyi/TranslatorApp/internal/logger"
	"github.com/Furry-Xiyi/TranslatorApp/internal/sign"
	"github.com/Furry-Xiyi/TranslatorApp/pkg/model"
)

// CredentialsProvider 提供只读的密钥查询，网关从不写入、从不记录密钥
type CredentialsProvider interface {
	Get(p model.Provider) (model.Credentials, bool)
}

// Options 网关配置
type Options struct {
	BingEndpoint   string
	BingRegion     string
	BaiduEndpoint  string
	YoudaoEndpoint string
	Timeout        time.Duration
	Clock          sign.Clock
}

// Gateway 翻译网关。每次调用相互独立，可并发使用
type Gateway struct {
	creds CredentialsProvider
	opts  Options
	http  *resty.Client
	log   logger.Logger
}

// noCredentials 未接入存储时的空实现
type noCredentials struct{}

func (noCredentials) Get(model.Provider) (model.Credentials, bool) {
	return model.Credentials{}, false
}

// New 创建翻译网关并应用默认配置
func New(creds CredentialsProvider, opts Options, l logger.Logger) *Gateway {
	if l == nil {
		l = logger.NewNop()
	}
	if creds == nil {
		creds = noCredentials{}
	}
	if opts.BingEndpoint == "" {
		opts.BingEndpoint = "https://api.cognitive.microsofttranslator.com/translate?api-version=3.0"
	}
	if opts.BingRegion == "" {
		opts.BingRegion = "global"
	}
	if opts.BaiduEndpoint == "" {
		opts.BaiduEndpoint = "https://fanyi-api.baidu.com/api/trans/vip/translate"
	}
	if opts.YoudaoEndpoint == "" {
		opts.YoudaoEndpoint = "https://openapi.youdao.com/api"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = sign.SystemClock{}
	}
	return &Gateway{
		creds: creds,
		opts:  opts,
		http:  resty.New().SetTimeout(opts.Timeout),
		log:   l,
	}
}

// Translate 执行一次翻译。失败通过 *model.TranslationError 返回，绝不 panic
func (g *Gateway) Translate(ctx context.Context, req model.TranslationRequest) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("翻译调用发生未预期异常", "provider", string(req.Provider), "panic", fmt.Sprint(r))
			err = model.NewTranslationError(model.ErrNetworkFailure, req.Provider, "", fmt.Sprintf("internal error: %v", r))
		}
	}()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", model.NewTranslationError(model.ErrInvalidInput, req.Provider, "", "翻译文本为空")
	}
	if !req.Provider.Valid() {
		return "", model.NewTranslationError(model.ErrInvalidInput, req.Provider, "", "不支持的翻译 API")
	}
	cred, ok := g.creds.Get(req.Provider)
	if !ok || cred.Empty() {
		return "", model.NewTranslationError(model.ErrMissingCredentials, req.Provider, "", "API Key 未填写")
	}

	// 源语言与目标语言相同且非 auto 时直接返回原文，不发起网络请求
	if req.SourceLang != "auto" && req.SourceLang == req.TargetLang {
		return text, nil
	}

	start := time.Now()
	switch req.Provider {
	case model.ProviderBing:
		result, err = g.translateBing(ctx, cred, text, req.SourceLang, req.TargetLang)
	case model.ProviderBaidu:
		result, err = g.translateBaidu(ctx, cred, text, req.SourceLang, req.TargetLang)
	case model.ProviderYoudao:
		result, err = g.translateYoudao(ctx, cred, text, req.SourceLang, req.TargetLang)
	}
	if err != nil {
		err = g.normalize(req.Provider, err)
		g.log.Warn("翻译失败", "provider", string(req.Provider), "error", err.Error(), "duration", time.Since(start))
		return "", err
	}
	g.log.Debug("翻译完成", "provider", string(req.Provider), "duration", time.Since(start))
	return result, nil
}

// HasCredentials 查询指定提供方是否已配置密钥
func (g *Gateway) HasCredentials(p model.Provider) bool {
	cred, ok := g.creds.Get(p)
	return ok && !cred.Empty()
}

// 各提供方校验密钥用的语言组合
var verifyLangs = map[model.Provider][2]string{
	model.ProviderBing:   {"en", "zh-Hans"},
	model.ProviderBaidu:  {"en", "zh"},
	model.ProviderYoudao: {"en", "zh-CHS"},
}

// Verify 用一次探测翻译验证密钥有效性，返回归一化后的错误
func (g *Gateway) Verify(ctx context.Context, p model.Provider) error {
	langs, ok := verifyLangs[p]
	if !ok {
		return model.NewTranslationError(model.ErrInvalidInput, p, "", "不支持的翻译 API")
	}
	_, err := g.Translate(ctx, model.TranslationRequest{
		Provider:   p,
		Text:       "hello",
		SourceLang: langs[0],
		TargetLang: langs[1],
	})
	return err
}

// normalize 将传输层错误归入错误分类，已归一化的错误原样透传
func (g *Gateway) normalize(p model.Provider, err error) error {
	var te *model.TranslationError
	if errors.As(err, &te) {
		return te
	}
	if errors.Is(err, context.Canceled) {
		return model.NewTranslationError(model.ErrCancelled, p, "", "请求已取消")
	}
	return model.NewTranslationError(model.ErrNetworkFailure, p, "", err.Error())
}

// snippet 截断响应体用于诊断信息，在字符边界截断
func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= 200 {
		return s
	}
	cut := 200
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
