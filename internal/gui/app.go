package gui

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/Furry-Xiyi/TranslatorApp/internal/browser"
	"github.com/Furry-Xiyi/TranslatorApp/internal/config"
	"github.com/Furry-Xiyi/TranslatorApp/internal/dailysentence"
	"github.com/Furry-Xiyi/TranslatorApp/internal/intercept"
	"github.com/Furry-Xiyi/TranslatorApp/internal/logger"
	"github.com/Furry-Xiyi/TranslatorApp/internal/pagemeta"
	"github.com/Furry-Xiyi/TranslatorApp/internal/rewrite"
	"github.com/Furry-Xiyi/TranslatorApp/internal/storage"
	"github.com/Furry-Xiyi/TranslatorApp/internal/translate"
	"github.com/Furry-Xiyi/TranslatorApp/internal/update"
	"github.com/Furry-Xiyi/TranslatorApp/pkg/model"
)

// AppVersion 当前应用版本号
const AppVersion = "1.2.0.0"

// App 暴露给前端的方法集合
type App struct {
	ctx context.Context
	cfg *config.Config
	log logger.Logger

	db      *storage.DB
	gateway *translate.Gateway
	daily   *dailysentence.Service
	checker *update.Checker
	meta    *pagemeta.Fetcher

	// 词典展示用的浏览器进程与拦截器
	browserMu   sync.Mutex
	browser     *browser.Browser
	interceptor *intercept.Manager

	// 翻译请求的取代控制：新请求取消在途请求，
	// 迟到结果按代次判定后丢弃
	transMu     sync.Mutex
	transCancel context.CancelFunc
	transGen    uint64
}

// NewApp 创建 App 实例
func NewApp(cfg *config.Config, l logger.Logger) *App {
	if l == nil {
		l = logger.NewNop()
	}
	return &App{cfg: cfg, log: l}
}

// Startup 由 Wails 在应用启动时调用
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	db, err := storage.Open(a.cfg.DataPath)
	if err != nil {
		a.log.Error("数据库初始化失败", "error", err)
	} else {
		a.db = db
	}

	var creds translate.CredentialsProvider
	if a.db != nil {
		creds = a.db.Credentials
	}
	a.gateway = translate.New(creds, translate.Options{
		BingEndpoint:   a.cfg.BingEndpoint,
		BingRegion:     a.cfg.BingRegion,
		BaiduEndpoint:  a.cfg.BaiduEndpoint,
		YoudaoEndpoint: a.cfg.YoudaoEndpoint,
		Timeout:        a.cfg.RequestTimeout,
	}, a.log)

	fetcher := dailysentence.NewFetcher(a.cfg.DailySentenceURL, a.cfg.RequestTimeout, a.cfg.ImageTimeout, a.log)
	a.daily = dailysentence.NewService(fetcher, a.log)
	a.daily.Subscribe(func(s model.DailySentence) {
		runtime.EventsEmit(a.ctx, "daily-sentence", s)
	})
	go a.daily.Refresh(context.Background())

	a.checker = update.NewChecker(a.cfg.GitHubOwner, a.cfg.GitHubRepo, a.cfg.RequestTimeout, a.log)
	a.meta = pagemeta.NewFetcher(a.cfg.RequestTimeout, a.log)

	// 启动时静默检查一次更新
	go a.autoCheckUpdate()
}

// Shutdown 由 Wails 在应用关闭时调用
func (a *App) Shutdown(ctx context.Context) {
	a.browserMu.Lock()
	if a.interceptor != nil {
		_ = a.interceptor.Close()
		a.interceptor = nil
	}
	if a.browser != nil {
		_ = a.browser.Stop(2 * time.Second)
		a.browser = nil
	}
	a.browserMu.Unlock()

	if a.db != nil {
		_ = a.db.Close()
	}
}

// OperationResult 通用操作结果
type OperationResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ========== 翻译 ==========

// TranslateResult 翻译结果
type TranslateResult struct {
	Text      string `json:"text"`
	Provider  string `json:"provider"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"errorKind,omitempty"`
}

// Translate 执行一次翻译。新的调用会取消尚未完成的旧调用，
// 界面只会看到最后一次请求的结果
func (a *App) Translate(provider, text, sourceLang, targetLang string) TranslateResult {
	p, ok := model.ParseProvider(provider)
	if !ok {
		return TranslateResult{Success: false, Error: "未知的翻译服务商", ErrorKind: model.ErrInvalidInput.String()}
	}

	a.transMu.Lock()
	if a.transCancel != nil {
		a.transCancel()
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.transCancel = cancel
	a.transGen++
	gen := a.transGen
	a.transMu.Unlock()
	defer cancel()

	out, err := a.gateway.Translate(ctx, model.TranslationRequest{
		Provider:   p,
		Text:       text,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	})

	// 迟到的结果视为已被新请求取代
	a.transMu.Lock()
	superseded := gen != a.transGen
	a.transMu.Unlock()
	if superseded {
		return TranslateResult{Provider: provider, Success: false, Error: "请求已被新的翻译取代", ErrorKind: model.ErrCancelled.String()}
	}

	if err != nil {
		return TranslateResult{Provider: provider, Success: false, Error: err.Error(), ErrorKind: model.KindOf(err).String()}
	}
	if a.db != nil {
		_ = a.db.Settings.Set(storage.SettingKeyProvider, provider)
	}
	return TranslateResult{Text: out, Provider: provider, Success: true}
}

// ========== 凭据 ==========

// SaveCredentials 保存某服务商的密钥
func (a *App) SaveCredentials(provider, key, secret string) OperationResult {
	p, ok := model.ParseProvider(provider)
	if !ok {
		return OperationResult{Success: false, Error: "未知的翻译服务商"}
	}
	if a.db == nil {
		return OperationResult{Success: false, Error: "存储未初始化"}
	}
	if err := a.db.Credentials.Set(p, model.Credentials{Key: key, Secret: secret}); err != nil {
		return OperationResult{Success: false, Error: err.Error()}
	}
	return OperationResult{Success: true}
}

// HasCredentials 某服务商是否已配置密钥
func (a *App) HasCredentials(provider string) bool {
	p, ok := model.ParseProvider(provider)
	if !ok {
		return false
	}
	return a.gateway.HasCredentials(p)
}

// VerifyCredentials 用一次试探翻译验证密钥有效性
func (a *App) VerifyCredentials(provider string) OperationResult {
	p, ok := model.ParseProvider(provider)
	if !ok {
		return OperationResult{Success: false, Error: "未知的翻译服务商"}
	}
	ctx, cancel := context.WithTimeout(a.ctx, a.cfg.RequestTimeout)
	defer cancel()
	if err := a.gateway.Verify(ctx, p); err != nil {
		return OperationResult{Success: false, Error: err.Error()}
	}
	return OperationResult{Success: true}
}

// ========== 查词 ==========

// BuildLookupURL 构造查词站点的页面地址
func (a *App) BuildLookupURL(site, word string) string {
	q := url.QueryEscape(word)
	switch site {
	case "bing":
		return "https://cn.bing.com/dict/search?q=" + q
	case "google":
		return "https://www.google.com/search?q=define%3A" + q
	default:
		return "https://dict.youdao.com/result?word=" + q + "&lang=en"
	}
}

// Lookup 在内嵌浏览器中打开查词页面并记录历史
func (a *App) Lookup(site, word string) OperationResult {
	if word == "" {
		return OperationResult{Success: false, Error: "查询词为空"}
	}
	target := a.BuildLookupURL(site, word)

	if err := a.ensureBrowser(target); err != nil {
		return OperationResult{Success: false, Error: err.Error()}
	}

	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := a.interceptor.Navigate(ctx, target); err != nil {
		return OperationResult{Success: false, Error: err.Error()}
	}

	if a.db != nil {
		_ = a.db.Settings.Set(storage.SettingKeyLookupSite, site)
		_ = a.db.History.Touch(word, "", site)
		// 标题抓取异步补写，不阻塞查词
		go a.fillHistoryTitle(word, target)
	}
	return OperationResult{Success: true}
}

// fillHistoryTitle 抓取页面标题并补写到历史记录
func (a *App) fillHistoryTitle(word, pageURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
	defer cancel()
	title := a.meta.FetchTitle(ctx, pageURL)
	if title == "" {
		return
	}
	if err := a.db.History.SetTitle(word, title); err != nil {
		a.log.Debug("补写历史标题失败", "word", word, "error", err)
	}
}

// ensureBrowser 启动词典浏览器并附加拦截器，已就绪时直接复用
func (a *App) ensureBrowser(startURL string) error {
	a.browserMu.Lock()
	defer a.browserMu.Unlock()
	if a.browser != nil && a.interceptor != nil {
		return nil
	}

	b, err := browser.Start(browser.Options{
		ExecPath: a.cfg.BrowserPath,
		StartURL: startURL,
	})
	if err != nil {
		a.log.Error("启动词典浏览器失败", "error", err)
		return err
	}
	a.browser = b

	m := intercept.New(b.DevToolsURL, rewrite.New(nil), a.cfg.RequestTimeout, a.log)
	m.SetEventFunc(func(ev model.RewriteEvent) {
		runtime.EventsEmit(a.ctx, "rewrite-event", ev)
	})
	dark := a.GetTheme() == "dark"
	_ = m.SetDark(context.Background(), dark)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.Attach(ctx); err != nil {
		_ = b.Stop(2 * time.Second)
		a.browser = nil
		return err
	}
	if err := m.Enable(); err != nil {
		_ = m.Close()
		_ = b.Stop(2 * time.Second)
		a.browser = nil
		return err
	}
	a.interceptor = m
	return nil
}

// CloseLookupBrowser 关闭词典浏览器
func (a *App) CloseLookupBrowser() OperationResult {
	a.browserMu.Lock()
	defer a.browserMu.Unlock()
	if a.interceptor != nil {
		_ = a.interceptor.Close()
		a.interceptor = nil
	}
	if a.browser == nil {
		return OperationResult{Success: true}
	}
	err := a.browser.Stop(2 * time.Second)
	a.browser = nil
	if err != nil {
		return OperationResult{Success: false, Error: err.Error()}
	}
	return OperationResult{Success: true}
}

// ========== 生词本 ==========

// FavoritesResult 生词本列表
type FavoritesResult struct {
	Items   []storage.FavoriteItem `json:"items"`
	Success bool                   `json:"success"`
	Error   string                 `json:"error,omitempty"`
}

// AddFavorite 收藏单词
func (a *App) AddFavorite(word string) OperationResult {
	if a.db == nil {
		return OperationResult{Success: false, Error: "存储未初始化"}
	}
	if err := a.db.Favorites.Add(word); err != nil {
		return OperationResult{Success: false, Error: err.Error()}
	}
	return OperationResult{Success: true}
}

// RemoveFavorite 取消收藏
func (a *App) RemoveFavorite(word string) OperationResult {
	if a.db == nil {
		return OperationResult{Success: false, Error: "存储未初始化"}
	}
	if err := a.db.Favorites.Remove(word); err != nil {
		return OperationResult{Success: false, Error: err.Error()}
	}
	return OperationResult{Success: true}
}

// IsFavorite 单词是否已在生词本中
func (a *App) IsFavorite(word string) bool {
	if a.db == nil {
		return false
	}
	return a.db.Favorites.Contains(word)
}

// ListFavorites 按时间倒序列出生词本
func (a *App) ListFavorites() FavoritesResult {
	if a.db == nil {
		return FavoritesResult{Success: false, Error: "存储未初始化"}
	}
	items, err := a.db.Favorites.List()
	if err != nil {
		return FavoritesResult{Success: false, Error: err.Error()}
	}
	return FavoritesResult{Items: items, Success: true}
}

// ========== 查词历史 ==========

// HistoryResult 查词历史列表
type HistoryResult struct {
	Items   []storage.LookupHistory `json:"items"`
	Success bool                    `json:"success"`
	Error   string                  `json:"error,omitempty"`
}

// ListHistory 按最近查询倒序列出历史
func (a *App) ListHistory() HistoryResult {
	if a.db == nil {
		return HistoryResult{Success: false, Error: "存储未初始化"}
	}
	items, err := a.db.History.List()
	if err != nil {
		return HistoryResult{Success: false, Error: err.Error()}
	}
	return HistoryResult{Items: items, Success: true}
}

// RemoveHistory 删除单条历史
func (a *App) RemoveHistory(word string) OperationResult {
	if a.db == nil {
		return OperationResult{Success: false, Error: "存储未初始化"}
	}
	if err := a.db.History.Remove(word); err != nil {
		return OperationResult{Success: false, Error: err.Error()}
	}
	return OperationResult{Success: true}
}

// Suggestions 按前缀联想历史词条
func (a *App) Suggestions(prefix string) []string {
	if a.db == nil {
		return nil
	}
	words, err := a.db.History.Suggest(prefix, 10)
	if err != nil {
		a.log.Debug("历史联想查询失败", "error", err)
		return nil
	}
	return words
}

// ClearHistory 清空历史
func (a *App) ClearHistory() OperationResult {
	if a.db == nil {
		return OperationResult{Success: false, Error: "存储未初始化"}
	}
	if err := a.db.History.Clear(); err != nil {
		return OperationResult{Success: false, Error: err.Error()}
	}
	return OperationResult{Success: true}
}

// ========== 每日一句 ==========

// DailySentenceResult 每日一句记录与渲染页
type DailySentenceResult struct {
	Sentence model.DailySentence `json:"sentence"`
	HTML     string              `json:"html"`
	Success  bool                `json:"success"`
	Error    string              `json:"error,omitempty"`
}

// DailySentenceHTML 返回当前每日一句的展示页面
func (a *App) DailySentenceHTML() DailySentenceResult {
	s := a.daily.Current()
	page, err := dailysentence.RenderHTML(s, a.GetTheme() == "dark")
	if err != nil {
		return DailySentenceResult{Sentence: s, HTML: dailysentence.LoadingHTML, Success: false, Error: err.Error()}
	}
	return DailySentenceResult{Sentence: s, HTML: page, Success: true}
}

// RefreshDailySentence 重新抓取每日一句
func (a *App) RefreshDailySentence() DailySentenceResult {
	ctx, cancel := context.WithTimeout(a.ctx, a.cfg.RequestTimeout+a.cfg.ImageTimeout)
	defer cancel()
	s := a.daily.Refresh(ctx)
	page, err := dailysentence.RenderHTML(s, a.GetTheme() == "dark")
	if err != nil {
		return DailySentenceResult{Sentence: s, HTML: dailysentence.LoadingHTML, Success: false, Error: err.Error()}
	}
	return DailySentenceResult{Sentence: s, HTML: page, Success: true}
}

// ========== 更新检查 ==========

// UpdateResult 更新检查结果
type UpdateResult struct {
	Status string `json:"status"`
	Tag    string `json:"tag,omitempty"`
	URL    string `json:"url,omitempty"`
}

// CheckForUpdates 手动检查更新，忽略“跳过此版本”标记
func (a *App) CheckForUpdates() UpdateResult {
	ctx, cancel := context.WithTimeout(a.ctx, a.cfg.RequestTimeout)
	defer cancel()
	res := a.checker.Check(ctx, AppVersion, "")
	return UpdateResult{Status: string(res.Status), Tag: res.Tag, URL: res.URL}
}

// IgnoreUpdate 记住被用户跳过的版本
func (a *App) IgnoreUpdate(tag string) OperationResult {
	if a.db == nil {
		return OperationResult{Success: false, Error: "存储未初始化"}
	}
	if err := a.db.Settings.Set(storage.SettingKeyIgnoredVersion, tag); err != nil {
		return OperationResult{Success: false, Error: err.Error()}
	}
	return OperationResult{Success: true}
}

// autoCheckUpdate 启动时静默检查，有新版本才通知前端
func (a *App) autoCheckUpdate() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
	defer cancel()
	ignored := ""
	if a.db != nil {
		ignored = a.db.Settings.Get(storage.SettingKeyIgnoredVersion, "")
	}
	res := a.checker.Check(ctx, AppVersion, ignored)
	if res.Status == update.StatusUpdateAvailable {
		runtime.EventsEmit(a.ctx, "update-available", UpdateResult{
			Status: string(res.Status), Tag: res.Tag, URL: res.URL,
		})
	}
}

// ========== 主题与设置 ==========

// SetTheme 切换主题并同步到词典页面。default 表示跟随系统，
// 页面侧按浅色处理
func (a *App) SetTheme(theme string) OperationResult {
	if theme != "dark" && theme != "light" && theme != "default" {
		return OperationResult{Success: false, Error: fmt.Sprintf("未知主题: %s", theme)}
	}
	if a.db != nil {
		if err := a.db.Settings.Set(storage.SettingKeyTheme, theme); err != nil {
			return OperationResult{Success: false, Error: err.Error()}
		}
	}
	a.browserMu.Lock()
	m := a.interceptor
	a.browserMu.Unlock()
	if m != nil {
		ctx, cancel := context.WithTimeout(a.ctx, 3*time.Second)
		defer cancel()
		if err := m.SetDark(ctx, theme == "dark"); err != nil {
			a.log.Warn("词典页面主题同步失败", "error", err)
		}
	}
	return OperationResult{Success: true}
}

// GetTheme 返回当前主题，默认浅色
func (a *App) GetTheme() string {
	if a.db == nil {
		return "light"
	}
	return a.db.Settings.Get(storage.SettingKeyTheme, "light")
}

// GetSetting 读取单个设置
func (a *App) GetSetting(key string) string {
	if a.db == nil {
		return ""
	}
	return a.db.Settings.Get(key, "")
}

// SetSetting 写入单个设置
func (a *App) SetSetting(key, value string) OperationResult {
	if a.db == nil {
		return OperationResult{Success: false, Error: "存储未初始化"}
	}
	if err := a.db.Settings.Set(key, value); err != nil {
		return OperationResult{Success: false, Error: err.Error()}
	}
	return OperationResult{Success: true}
}

// GetVersion 返回应用版本号
func (a *App) GetVersion() string { return AppVersion }

// ShouldShowWhatsNew 当前版本的更新说明是否尚未展示过
func (a *App) ShouldShowWhatsNew() bool {
	if a.db == nil {
		return false
	}
	shown := a.db.Settings.Get(storage.SettingKeyWhatsNewVersion, "")
	if shown == AppVersion {
		return false
	}
	_ = a.db.Settings.Set(storage.SettingKeyWhatsNewVersion, AppVersion)
	return true
}
