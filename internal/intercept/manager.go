package intercept

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mafredri/cdp"
	"github.com/mafredri/cdp/devtool"
	"github.com/mafredri/cdp/protocol/emulation"
	"github.com/mafredri/cdp/protocol/fetch"
	"github.com/mafredri/cdp/protocol/network"
	"github.com/mafredri/cdp/protocol/page"
	"github.com/mafredri/cdp/rpcc"
	"github.com/go-resty/resty/v2"

	"github.com/Furry-Xiyi/TranslatorApp/internal/logger"
	"github.com/Furry-Xiyi/TranslatorApp/internal/rewrite"
	"github.com/Furry-Xiyi/TranslatorApp/pkg/model"
)

// 回源请求使用的 UA，与内嵌浏览器保持一致避免被站点区别对待
const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// EventFunc 在每次资源改写决策后回调，用于界面侧展示
type EventFunc func(model.RewriteEvent)

// Manager 管理 DevTools 连接与页面资源拦截改写流程。
// 生命周期由内部 context 统一控制，关闭后所有在途事件直接放行
type Manager struct {
	devtoolsURL string
	engine      *rewrite.Engine
	log         logger.Logger

	attachMu sync.Mutex
	conn     *rpcc.Conn
	client   *cdp.Client
	ctx      context.Context
	cancel   context.CancelFunc

	fetchClient  *resty.Client
	fetchTimeout time.Duration

	dark    atomic.Bool
	onEvent EventFunc

	// 当前页面主机名，主题切换时判断是否需要整页刷新
	hostMu      sync.Mutex
	currentHost string
}

// New 创建拦截管理器
func New(devtoolsURL string, engine *rewrite.Engine, timeout time.Duration, l logger.Logger) *Manager {
	if l == nil {
		l = logger.NewNop()
	}
	if engine == nil {
		engine = rewrite.New(nil)
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Manager{
		devtoolsURL:  devtoolsURL,
		engine:       engine,
		log:          l,
		fetchTimeout: timeout,
		fetchClient: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", browserUA),
	}
}

// SetEventFunc 注册改写事件回调，需在 Attach 前调用
func (m *Manager) SetEventFunc(fn EventFunc) { m.onEvent = fn }

// Attach 附着到浏览器页面目标并建立 CDP 会话
func (m *Manager) Attach(ctx context.Context) error {
	m.attachMu.Lock()
	defer m.attachMu.Unlock()
	m.log.Info("开始附加浏览器目标", "devtools", m.devtoolsURL)

	if m.cancel != nil {
		m.cancel()
	}
	if m.conn != nil {
		_ = m.conn.Close()
	}

	lctx, cancel := context.WithCancel(context.Background())
	m.ctx = lctx
	m.cancel = cancel

	sel, err := m.resolveTarget(ctx)
	if err != nil {
		return err
	}
	if sel == nil {
		m.log.Error("未找到可附加的浏览器目标")
		return fmt.Errorf("no target")
	}

	conn, err := rpcc.DialContext(ctx, sel.WebSocketDebuggerURL)
	if err != nil {
		m.log.Error("连接浏览器 DevTools 失败", "error", err)
		return err
	}
	m.conn = conn
	m.client = cdp.NewClient(conn)
	m.log.Info("附加浏览器目标成功", "url", sel.URL)
	return nil
}

// Enable 启用页面资源拦截并开始消费事件流
func (m *Manager) Enable() error {
	if m.client == nil {
		return fmt.Errorf("not attached")
	}
	m.log.Info("开始启用资源拦截")

	if err := m.client.Network.Enable(m.ctx, nil); err != nil {
		return err
	}
	if err := m.client.Page.Enable(m.ctx); err != nil {
		return err
	}

	if err := m.client.Fetch.Enable(m.ctx, &fetch.EnableArgs{Patterns: fetchPatterns()}); err != nil {
		return err
	}
	// 生命周期事件默认关闭，订阅前必须显式开启
	if err := m.client.Page.SetLifecycleEventsEnabled(m.ctx, page.NewSetLifecycleEventsEnabledArgs(true)); err != nil {
		return err
	}

	if err := m.applyTheme(m.ctx); err != nil {
		m.log.Warn("初始主题同步失败", "error", err)
	}

	go m.consume()
	go m.watchLifecycle()
	m.log.Info("资源拦截启用完成")
	return nil
}

// fetchPatterns 只拦截文档和样式表，其余资源不经过改写路径
func fetchPatterns() []fetch.RequestPattern {
	all := "*"
	doc := network.ResourceTypeDocument
	css := network.ResourceTypeStylesheet
	return []fetch.RequestPattern{
		{URLPattern: &all, ResourceType: &doc, RequestStage: fetch.RequestStageRequest},
		{URLPattern: &all, ResourceType: &css, RequestStage: fetch.RequestStageRequest},
	}
}

// Navigate 让页面跳转到指定地址
func (m *Manager) Navigate(ctx context.Context, rawURL string) error {
	if m.client == nil {
		return fmt.Errorf("not attached")
	}
	m.setCurrentHost(hostOf(rawURL))
	_, err := m.client.Page.Navigate(ctx, page.NewNavigateArgs(rawURL))
	if err != nil {
		m.log.Error("页面跳转失败", "url", rawURL, "error", err)
	}
	return err
}

// SetDark 切换深浅色主题并推送到页面。
// 必应的服务端按主题渲染，当前停留在必应时需要整页刷新
func (m *Manager) SetDark(ctx context.Context, dark bool) error {
	m.dark.Store(dark)
	if m.client == nil {
		return nil
	}
	if err := m.applyTheme(ctx); err != nil {
		return err
	}
	host := m.getCurrentHost()
	for _, r := range m.engine.Rules() {
		if r.ReloadOnThemeChange && hostMatches(host, r.HostSuffix) {
			m.log.Info("主题切换触发页面刷新", "host", host)
			return m.client.Page.Reload(ctx, nil)
		}
	}
	return nil
}

// Dark 返回当前是否为深色主题
func (m *Manager) Dark() bool { return m.dark.Load() }

// Close 断开会话并取消所有在途处理
func (m *Manager) Close() error {
	m.attachMu.Lock()
	defer m.attachMu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}

// applyTheme 把当前主题推送到页面：模拟 prefers-color-scheme，
// 并按规则写入站点主题 Cookie
func (m *Manager) applyTheme(ctx context.Context) error {
	dark := m.dark.Load()
	scheme := "light"
	if dark {
		scheme = "dark"
	}
	args := &emulation.SetEmulatedMediaArgs{
		Features: []emulation.MediaFeature{
			{Name: "prefers-color-scheme", Value: scheme},
		},
	}
	if err := m.client.Emulation.SetEmulatedMedia(ctx, args); err != nil {
		return err
	}

	for _, r := range m.engine.Rules() {
		if r.Cookie == nil {
			continue
		}
		value := r.Cookie.LightValue
		if dark {
			value = r.Cookie.DarkValue
		}
		if value == "" {
			ck := network.NewDeleteCookiesArgs(r.Cookie.Name).SetDomain(r.Cookie.Domain)
			if err := m.client.Network.DeleteCookies(ctx, ck); err != nil {
				m.log.Warn("删除主题 Cookie 失败", "name", r.Cookie.Name, "error", err)
			}
			continue
		}
		ck := network.NewSetCookieArgs(r.Cookie.Name, value).SetDomain(r.Cookie.Domain).SetPath("/")
		if _, err := m.client.Network.SetCookie(ctx, ck); err != nil {
			m.log.Warn("写入主题 Cookie 失败", "name", r.Cookie.Name, "error", err)
		}
	}
	return nil
}

// watchLifecycle 监听页面生命周期，导航初始化时重新同步主题
func (m *Manager) watchLifecycle() {
	stream, err := m.client.Page.LifecycleEvent(m.ctx)
	if err != nil {
		m.log.Warn("订阅页面生命周期失败", "error", err)
		return
	}
	defer stream.Close()
	for {
		ev, err := stream.Recv()
		if err != nil {
			return
		}
		if ev == nil || ev.Name != "init" {
			continue
		}
		ctx, cancel := context.WithTimeout(m.ctx, 2*time.Second)
		if err := m.applyTheme(ctx); err != nil {
			m.log.Debug("导航后主题同步失败", "error", err)
		}
		cancel()
	}
}

func (m *Manager) resolveTarget(ctx context.Context) (*devtool.Target, error) {
	dt := devtool.New(m.devtoolsURL)
	targets, err := dt.List(ctx)
	if err != nil {
		m.log.Error("获取浏览器目标列表失败", "error", err)
		return nil, err
	}
	for i := range targets {
		if targets[i] != nil && targets[i].Type == "page" {
			return targets[i], nil
		}
	}
	return nil, nil
}

func (m *Manager) setCurrentHost(host string) {
	m.hostMu.Lock()
	m.currentHost = host
	m.hostMu.Unlock()
}

func (m *Manager) getCurrentHost() string {
	m.hostMu.Lock()
	defer m.hostMu.Unlock()
	return m.currentHost
}

func hostMatches(host, suffix string) bool {
	host = strings.ToLower(host)
	suffix = strings.ToLower(suffix)
	return host == suffix || strings.HasSuffix(host, "."+suffix)
}
