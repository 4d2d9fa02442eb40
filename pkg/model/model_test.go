package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in   string
		want Provider
		ok   bool
	}{
		{in: "Bing", want: ProviderBing, ok: true},
		{in: "baidu", want: ProviderBaidu, ok: true},
		{in: "youdao", want: ProviderYoudao, ok: true},
		{in: "DeepL", ok: false},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, ok := ParseProvider(tt.in)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, p)
				assert.True(t, p.Valid())
			}
		})
	}
}

func TestTranslationError(t *testing.T) {
	err := NewTranslationError(ErrProviderRejected, ProviderBaidu, "52003", "UNAUTHORIZED USER")
	assert.Equal(t, ErrProviderRejected, KindOf(err))
	assert.Contains(t, err.Error(), "52003")
	assert.Contains(t, err.Error(), "Baidu")

	var te *TranslationError
	assert.True(t, errors.As(err, &te))

	// 非归一化错误一律按网络失败处理
	assert.Equal(t, ErrNetworkFailure, KindOf(fmt.Errorf("dial tcp: timeout")))
	assert.False(t, IsCancelled(err))
	assert.True(t, IsCancelled(NewTranslationError(ErrCancelled, ProviderBing, "", "")))
}

func TestCredentialsEmpty(t *testing.T) {
	assert.True(t, Credentials{}.Empty())
	assert.True(t, Credentials{Secret: "s"}.Empty())
	assert.False(t, Credentials{Key: "k"}.Empty())
}
