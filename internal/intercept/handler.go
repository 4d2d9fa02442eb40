package intercept

import (
	"context"
	"net/url"
	"time"

	"github.com/mafredri/cdp/protocol/fetch"
	"github.com/mafredri/cdp/protocol/network"

	"github.com/Furry-Xiyi/TranslatorApp/internal/rewrite"
	"github.com/Furry-Xiyi/TranslatorApp/pkg/model"
)

// consume 持续接收拦截事件并逐个分发处理
func (m *Manager) consume() {
	rp, err := m.client.Fetch.RequestPaused(m.ctx)
	if err != nil {
		m.log.Error("订阅拦截事件流失败", "error", err)
		return
	}
	defer rp.Close()
	m.log.Info("开始消费拦截事件流")
	for {
		ev, err := rp.Recv()
		if err != nil {
			if m.ctx.Err() == nil {
				m.log.Warn("拦截事件流中断", "error", err)
			}
			return
		}
		go m.handle(ev)
	}
}

// handle 处理一次拦截事件。每个事件恰好收尾一次：
// 要么回填改写后的响应，要么原样放行
func (m *Manager) handle(ev *fetch.RequestPausedReply) {
	// 关闭流程中不再回源，直接放行
	if m.ctx.Err() != nil {
		m.continueRequest(ev)
		return
	}

	start := time.Now()
	kind := resourceKind(ev.ResourceType)
	host := hostOf(ev.Request.URL)
	if ev.Request.Method != "GET" {
		m.continueRequest(ev)
		return
	}

	rule := m.engine.Match(host, kind)
	if rule == nil {
		m.continueRequest(ev)
		return
	}

	m.log.Debug("命中站点改写规则", "site", rule.Name, "kind", kind.String(), "url", ev.Request.URL)
	m.setCurrentHost(host)

	body, ok := m.fetchUpstream(ev.Request.URL)
	if !ok {
		// 回源失败时放行，让浏览器自己加载
		m.continueRequest(ev)
		m.emit(ev.Request.URL, kind, "failed-through", rule.Name, time.Since(start))
		return
	}

	out := m.engine.Transform(rule, kind, body, m.dark.Load())
	m.fulfill(ev, kind, out)
	m.emit(ev.Request.URL, kind, "fulfilled", rule.Name, time.Since(start))
	m.log.Debug("资源改写完成", "site", rule.Name, "kind", kind.String(), "duration", time.Since(start))
}

// fetchUpstream 代替浏览器取回原始资源
func (m *Manager) fetchUpstream(rawURL string) ([]byte, bool) {
	resp, err := m.fetchClient.R().Get(rawURL)
	if err != nil {
		m.log.Warn("回源请求失败", "url", rawURL, "error", err)
		return nil, false
	}
	if resp.IsError() {
		m.log.Warn("回源请求返回错误状态", "url", rawURL, "status", resp.StatusCode())
		return nil, false
	}
	return resp.Body(), true
}

// fulfill 用改写后的内容回填响应
func (m *Manager) fulfill(ev *fetch.RequestPausedReply, kind model.ResourceKind, body []byte) {
	ctx, cancel := context.WithTimeout(m.ctx, 3*time.Second)
	defer cancel()
	args := fetch.NewFulfillRequestArgs(ev.RequestID, 200).
		SetResponseHeaders([]fetch.HeaderEntry{
			{Name: "Content-Type", Value: rewrite.ContentType(kind)},
		}).
		SetBody(body)
	if err := m.client.Fetch.FulfillRequest(ctx, args); err != nil {
		m.log.Error("回填改写响应失败", "url", ev.Request.URL, "error", err)
	}
}

// continueRequest 原样放行请求
func (m *Manager) continueRequest(ev *fetch.RequestPausedReply) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	args := &fetch.ContinueRequestArgs{RequestID: ev.RequestID}
	if err := m.client.Fetch.ContinueRequest(ctx, args); err != nil {
		m.log.Debug("放行请求失败", "url", ev.Request.URL, "error", err)
	}
}

func (m *Manager) emit(rawURL string, kind model.ResourceKind, result, site string, elapsed time.Duration) {
	if m.onEvent == nil {
		return
	}
	m.onEvent(model.RewriteEvent{
		URL:     rawURL,
		Kind:    kind.String(),
		Result:  result,
		Site:    site,
		Elapsed: elapsed.Milliseconds(),
	})
}

func resourceKind(t network.ResourceType) model.ResourceKind {
	if t == network.ResourceTypeStylesheet {
		return model.ResourceStylesheet
	}
	return model.ResourceDocument
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
