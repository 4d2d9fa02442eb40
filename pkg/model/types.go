package model

// Provider 翻译服务提供方
type Provider string

const (
	ProviderBing   Provider = "Bing"
	ProviderBaidu  Provider = "Baidu"
	ProviderYoudao Provider = "Youdao"
)

// Valid 判断是否为受支持的提供方
func (p Provider) Valid() bool {
	switch p {
	case ProviderBing, ProviderBaidu, ProviderYoudao:
		return true
	}
	return false
}

// ParseProvider 将字符串解析为 Provider，大小写不敏感
func ParseProvider(s string) (Provider, bool) {
	switch s {
	case "Bing", "bing":
		return ProviderBing, true
	case "Baidu", "baidu":
		return ProviderBaidu, true
	case "Youdao", "youdao":
		return ProviderYoudao, true
	}
	return "", false
}

// Credentials 单个提供方的密钥对。Bing 只使用 Key，Secret 为空
type Credentials struct {
	Key    string
	Secret string
}

// Empty 判断密钥是否未配置
func (c Credentials) Empty() bool { return c.Key == "" }

// TranslationRequest 一次翻译调用的输入，按调用创建、用完即弃
type TranslationRequest struct {
	Provider   Provider `json:"provider"`
	Text       string   `json:"text"`
	SourceLang string   `json:"sourceLang"` // ISO 风格语言码或 "auto"
	TargetLang string   `json:"targetLang"`
}

// ResourceKind 被拦截资源的类型
type ResourceKind int

const (
	ResourceDocument ResourceKind = iota
	ResourceStylesheet
)

func (k ResourceKind) String() string {
	if k == ResourceStylesheet {
		return "stylesheet"
	}
	return "document"
}

// DailySentence 每日一句记录。整体替换，绝不逐字段修改
type DailySentence struct {
	Caption     string `json:"caption"`
	Date        string `json:"date"`
	English     string `json:"english"`
	ChineseNote string `json:"chineseNote"`
	// Picture 为图片地址；内嵌完成后替换为 data URI
	Picture string `json:"picture"`
	TTSURL  string `json:"ttsUrl"`
}

// RewriteEvent 内容重写层产生的事件，供界面展示
type RewriteEvent struct {
	URL     string `json:"url"`
	Kind    string `json:"kind"`   // document / stylesheet
	Result  string `json:"result"` // fulfilled / passed / failed-through
	Site    string `json:"site,omitempty"`
	Elapsed int64  `json:"elapsedMs"`
}
