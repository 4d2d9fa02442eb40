package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置，全部来自环境变量并带默认值
type Config struct {
	// 主要请求超时（翻译、内容重写、每日一句主请求）
	RequestTimeout time.Duration
	// 次要图片下载超时
	ImageTimeout time.Duration

	// 翻译接口地址
	BingEndpoint   string
	BingRegion     string
	BaiduEndpoint  string
	YoudaoEndpoint string

	// 每日一句数据源
	DailySentenceURL string

	// 更新检查仓库
	GitHubOwner string
	GitHubRepo  string

	// 本地数据库路径，为空时使用平台默认位置
	DataPath string

	// Chrome 可执行文件路径，为空时自动探测
	BrowserPath string

	Debug bool
}

// Load 读取环境变量并返回配置。.env 文件不存在时忽略
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		RequestTimeout:   getDuration("TRANSLATOR_REQUEST_TIMEOUT", 8*time.Second),
		ImageTimeout:     getDuration("TRANSLATOR_IMAGE_TIMEOUT", 5*time.Second),
		BingEndpoint:     getEnv("TRANSLATOR_BING_ENDPOINT", "https://api.cognitive.microsofttranslator.com/translate?api-version=3.0"),
		BingRegion:       getEnv("TRANSLATOR_BING_REGION", "global"),
		BaiduEndpoint:    getEnv("TRANSLATOR_BAIDU_ENDPOINT", "https://fanyi-api.baidu.com/api/trans/vip/translate"),
		YoudaoEndpoint:   getEnv("TRANSLATOR_YOUDAO_ENDPOINT", "https://openapi.youdao.com/api"),
		DailySentenceURL: getEnv("TRANSLATOR_DAILY_SENTENCE_URL", "https://open.iciba.com/dsapi/"),
		GitHubOwner:      getEnv("TRANSLATOR_GITHUB_OWNER", "Furry-Xiyi"),
		GitHubRepo:       getEnv("TRANSLATOR_GITHUB_REPO", "TranslatorApp"),
		DataPath:         os.Getenv("TRANSLATOR_DATA_PATH"),
		BrowserPath:      os.Getenv("TRANSLATOR_BROWSER_PATH"),
		Debug:            getBool("TRANSLATOR_DEBUG", false),
	}

	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("TRANSLATOR_REQUEST_TIMEOUT must be positive")
	}
	if cfg.ImageTimeout <= 0 {
		return nil, fmt.Errorf("TRANSLATOR_IMAGE_TIMEOUT must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}
