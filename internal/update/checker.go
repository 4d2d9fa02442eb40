package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/Furry-Xiyi/TranslatorApp/internal/logger"
)

// Status 检查结果状态
type Status string

const (
	StatusUpdateAvailable Status = "update-available"
	StatusUpToDate        Status = "up-to-date"
	StatusError           Status = "error"
)

// Result 一次更新检查的结论
type Result struct {
	Status Status `json:"status"`
	Tag    string `json:"tag,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Checker 查询 GitHub Releases 判断是否有新版本。
// 检查失败静默处理，绝不打扰用户
type Checker struct {
	owner   string
	repo    string
	apiBase string
	http    *resty.Client
	log     logger.Logger
}

// NewChecker 创建检查器
func NewChecker(owner, repo string, timeout time.Duration, l logger.Logger) *Checker {
	if l == nil {
		l = logger.NewNop()
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Checker{
		owner:   owner,
		repo:    repo,
		apiBase: "https://api.github.com",
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "TranslatorApp-UpdateChecker").
			SetHeader("Accept", "application/vnd.github+json"),
		log: l,
	}
}

// Check 对比最新发布版与当前版本。ignored 为用户选择忽略的标签，
// 命中时按无更新处理
func (c *Checker) Check(ctx context.Context, current, ignored string) Result {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.apiBase, c.owner, c.repo)
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		c.log.Debug("更新检查请求失败", "error", err)
		return Result{Status: StatusError}
	}
	if resp.IsError() {
		c.log.Debug("更新检查接口返回错误状态", "status", resp.StatusCode())
		return Result{Status: StatusError}
	}

	root := gjson.ParseBytes(resp.Body())
	tag := root.Get("tag_name").String()
	htmlURL := root.Get("html_url").String()
	if tag == "" {
		return Result{Status: StatusError}
	}

	if ignored != "" && strings.EqualFold(tag, ignored) {
		return Result{Status: StatusUpToDate, Tag: tag, URL: htmlURL}
	}

	latest := Normalize(tag)
	cur := Normalize(current)
	if latest.IsZero() {
		return Result{Status: StatusError}
	}
	if latest.Compare(cur) > 0 {
		c.log.Info("发现新版本", "tag", tag)
		return Result{Status: StatusUpdateAvailable, Tag: tag, URL: htmlURL}
	}
	return Result{Status: StatusUpToDate, Tag: tag, URL: htmlURL}
}
