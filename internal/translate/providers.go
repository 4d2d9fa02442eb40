package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Furry-Xiyi/TranslatorApp/internal/sign"
	"github.com/Furry-Xiyi/TranslatorApp/pkg/model"
)

// translateBing 调用 Azure 认知服务翻译接口。
// 鉴权只靠订阅密钥请求头，不做载荷签名
func (g *Gateway) translateBing(ctx context.Context, cred model.Credentials, text, from, to string) (string, error) {
	endpoint := fmt.Sprintf("%s&from=%s&to=%s", g.opts.BingEndpoint, url.QueryEscape(from), url.QueryEscape(to))

	resp, err := g.http.R().
		SetContext(ctx).
		SetHeader("Ocp-Apim-Subscription-Key", cred.Key).
		SetHeader("Ocp-Apim-Subscription-Region", g.opts.BingRegion).
		SetHeader("Content-Type", "application/json").
		SetBody([]map[string]string{{"Text": text}}).
		Post(endpoint)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", model.NewTranslationError(model.ErrProviderRejected, model.ProviderBing,
			strconv.Itoa(resp.StatusCode()), snippet(resp.Body()))
	}

	var out []struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil || len(out) == 0 || len(out[0].Translations) == 0 {
		return "", model.NewTranslationError(model.ErrMalformedResponse, model.ProviderBing, "", snippet(resp.Body()))
	}
	return out[0].Translations[0].Text, nil
}

// translateBaidu 调用百度通用翻译接口，签名随查询串传输
func (g *Gateway) translateBaidu(ctx context.Context, cred model.Credentials, text, from, to string) (string, error) {
	salt := sign.Salt(g.opts.Clock)

	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     text,
			"from":  from,
			"to":    to,
			"appid": cred.Key,
			"salt":  salt,
			"sign":  sign.Baidu(cred.Key, text, salt, cred.Secret),
		}).
		Get(g.opts.BaiduEndpoint)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", model.NewTranslationError(model.ErrProviderRejected, model.ProviderBaidu,
			strconv.Itoa(resp.StatusCode()), snippet(resp.Body()))
	}

	var out struct {
		ErrorCode   string `json:"error_code"`
		ErrorMsg    string `json:"error_msg"`
		TransResult []struct {
			Dst string `json:"dst"`
		} `json:"trans_result"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", model.NewTranslationError(model.ErrMalformedResponse, model.ProviderBaidu, "", snippet(resp.Body()))
	}
	if out.ErrorCode != "" && out.ErrorCode != "52000" {
		return "", model.NewTranslationError(model.ErrProviderRejected, model.ProviderBaidu, out.ErrorCode, out.ErrorMsg)
	}
	if len(out.TransResult) == 0 {
		return "", model.NewTranslationError(model.ErrMalformedResponse, model.ProviderBaidu, "", snippet(resp.Body()))
	}
	return out.TransResult[0].Dst, nil
}

// translateYoudao 调用有道智云 v3 接口，表单传输 + SHA256 签名
func (g *Gateway) translateYoudao(ctx context.Context, cred model.Credentials, text, from, to string) (string, error) {
	salt := sign.Salt(g.opts.Clock)
	curtime := sign.Curtime(g.opts.Clock)

	resp, err := g.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"q":        text,
			"from":     from,
			"to":       to,
			"appKey":   cred.Key,
			"salt":     salt,
			"sign":     sign.Youdao(cred.Key, text, salt, curtime, cred.Secret),
			"signType": "v3",
			"curtime":  curtime,
		}).
		Post(g.opts.YoudaoEndpoint)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", model.NewTranslationError(model.ErrProviderRejected, model.ProviderYoudao,
			strconv.Itoa(resp.StatusCode()), snippet(resp.Body()))
	}

	var out struct {
		ErrorCode   string   `json:"errorCode"`
		Translation []string `json:"translation"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", model.NewTranslationError(model.ErrMalformedResponse, model.ProviderYoudao, "", snippet(resp.Body()))
	}
	if out.ErrorCode != "" && out.ErrorCode != "0" {
		return "", model.NewTranslationError(model.ErrProviderRejected, model.ProviderYoudao, out.ErrorCode, "有道翻译返回错误")
	}
	if len(out.Translation) == 0 {
		return "", model.NewTranslationError(model.ErrMalformedResponse, model.ProviderYoudao, "", snippet(resp.Body()))
	}
	return out.Translation[0], nil
}
