package gui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Furry-Xiyi/TranslatorApp/internal/config"
	"github.com/Furry-Xiyi/TranslatorApp/internal/translate"
	"github.com/Furry-Xiyi/TranslatorApp/pkg/model"
)

type stubCreds struct{}

func (stubCreds) Get(p model.Provider) (model.Credentials, bool) {
	return model.Credentials{Key: "k", Secret: "s"}, true
}

func TestTranslateSupersede(t *testing.T) {
	slowArrived := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("q") == "slow" {
			close(slowArrived)
			// 请求被取消前不返回
			<-r.Context().Done()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errorCode":"0","translation":["快的结果"]}`))
	}))
	defer srv.Close()

	app := NewApp(&config.Config{}, nil)
	app.ctx = context.Background()
	app.gateway = translate.New(stubCreds{}, translate.Options{
		YoudaoEndpoint: srv.URL,
		Timeout:        5 * time.Second,
	}, nil)

	first := make(chan TranslateResult, 1)
	go func() {
		first <- app.Translate("youdao", "slow", "en", "zh-CHS")
	}()

	// 等第一个请求抵达服务端后再发起第二个
	select {
	case <-slowArrived:
	case <-time.After(3 * time.Second):
		t.Fatal("第一个翻译请求未到达服务端")
	}

	second := app.Translate("youdao", "fast", "en", "zh-CHS")
	assert.True(t, second.Success)
	assert.Equal(t, "快的结果", second.Text)

	// 先发的调用被后发的取代，迟到结果按取消处理
	select {
	case res := <-first:
		assert.False(t, res.Success)
		assert.Equal(t, model.ErrCancelled.String(), res.ErrorKind)
		assert.Empty(t, res.Text)
	case <-time.After(3 * time.Second):
		t.Fatal("被取代的翻译调用未返回")
	}
}

func TestBuildLookupURL(t *testing.T) {
	app := NewApp(&config.Config{}, nil)

	tests := []struct {
		name string
		site string
		word string
		want string
	}{
		{
			name: "youdao default",
			site: "youdao",
			word: "hello",
			want: "https://dict.youdao.com/result?word=hello&lang=en",
		},
		{
			name: "unknown site falls back to youdao",
			site: "",
			word: "hello",
			want: "https://dict.youdao.com/result?word=hello&lang=en",
		},
		{
			name: "bing",
			site: "bing",
			word: "hello",
			want: "https://cn.bing.com/dict/search?q=hello",
		},
		{
			name: "google define",
			site: "google",
			word: "hello",
			want: "https://www.google.com/search?q=define%3Ahello",
		},
		{
			name: "word with spaces escaped",
			site: "bing",
			word: "give up",
			want: "https://cn.bing.com/dict/search?q=give+up",
		},
		{
			name: "cjk word escaped",
			site: "youdao",
			word: "你好",
			want: "https://dict.youdao.com/result?word=%E4%BD%A0%E5%A5%BD&lang=en",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, app.BuildLookupURL(tt.site, tt.word))
		})
	}
}

func TestGetThemeWithoutStorage(t *testing.T) {
	app := NewApp(&config.Config{}, nil)
	// 存储不可用时退回浅色
	assert.Equal(t, "light", app.GetTheme())
}

func TestSetThemeRejectsUnknown(t *testing.T) {
	app := NewApp(&config.Config{}, nil)
	res := app.SetTheme("sepia")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestGetVersion(t *testing.T) {
	app := NewApp(&config.Config{}, nil)
	assert.Equal(t, AppVersion, app.GetVersion())
}
