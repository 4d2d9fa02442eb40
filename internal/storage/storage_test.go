package storage

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Furry-Xiyi/TranslatorApp/pkg/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSettingsRepo(t *testing.T) {
	db := newTestDB(t)

	assert.Equal(t, "light", db.Settings.Get(SettingKeyTheme, "light"))

	require.NoError(t, db.Settings.Set(SettingKeyTheme, "dark"))
	assert.Equal(t, "dark", db.Settings.Get(SettingKeyTheme, "light"))

	// 覆盖写
	require.NoError(t, db.Settings.Set(SettingKeyTheme, "light"))
	assert.Equal(t, "light", db.Settings.Get(SettingKeyTheme, ""))
}

func TestCredentialsRepo(t *testing.T) {
	db := newTestDB(t)

	_, ok := db.Credentials.Get(model.ProviderBaidu)
	assert.False(t, ok)

	require.NoError(t, db.Credentials.Set(model.ProviderBaidu, model.Credentials{Key: "appid", Secret: "secret"}))
	c, ok := db.Credentials.Get(model.ProviderBaidu)
	require.True(t, ok)
	assert.Equal(t, "appid", c.Key)
	assert.Equal(t, "secret", c.Secret)

	// 必应只需要 Key
	require.NoError(t, db.Credentials.Set(model.ProviderBing, model.Credentials{Key: "sub-key"}))
	_, ok = db.Credentials.Get(model.ProviderBing)
	assert.True(t, ok)

	// 百度、有道缺少 Secret 视为未配置
	require.NoError(t, db.Credentials.Set(model.ProviderYoudao, model.Credentials{Key: "only-key"}))
	_, ok = db.Credentials.Get(model.ProviderYoudao)
	assert.False(t, ok)

	// 覆盖更新
	require.NoError(t, db.Credentials.Set(model.ProviderBaidu, model.Credentials{Key: "appid2", Secret: "secret2"}))
	c, ok = db.Credentials.Get(model.ProviderBaidu)
	require.True(t, ok)
	assert.Equal(t, "appid2", c.Key)
}

func TestFavoritesRepo(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Favorites.Add("hello"))
	require.NoError(t, db.Favorites.Add("world"))
	// 重复收藏不报错也不产生重复行
	require.NoError(t, db.Favorites.Add("hello"))

	assert.True(t, db.Favorites.Contains("hello"))
	assert.False(t, db.Favorites.Contains("unknown"))

	items, err := db.Favorites.List()
	require.NoError(t, err)
	require.Len(t, items, 2)
	// 新收藏的在前
	assert.Equal(t, "world", items[0].Word)

	require.NoError(t, db.Favorites.Remove("hello"))
	assert.False(t, db.Favorites.Contains("hello"))
}

func TestHistoryRepoMRU(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.History.Touch("alpha", "", "youdao"))
	require.NoError(t, db.History.Touch("beta", "Beta 释义", "youdao"))
	require.NoError(t, db.History.Touch("gamma", "", "bing"))

	// 再次查询的词提升到最前
	require.NoError(t, db.History.Touch("alpha", "", "bing"))

	items, err := db.History.List()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "alpha", items[0].Word)
	assert.Equal(t, "bing", items[0].Site)

	// 标题异步补写
	require.NoError(t, db.History.SetTitle("gamma", "gamma是什么意思"))
	items, err = db.History.List()
	require.NoError(t, err)
	for _, it := range items {
		if it.Word == "gamma" {
			assert.Equal(t, "gamma是什么意思", it.Title)
		}
		if it.Word == "beta" {
			assert.Equal(t, "Beta 释义", it.Title)
		}
	}
}

func TestHistoryRepoCap(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < historyLimit+10; i++ {
		require.NoError(t, db.History.Touch(fmt.Sprintf("word-%03d", i), "", "youdao"))
	}

	items, err := db.History.List()
	require.NoError(t, err)
	assert.Len(t, items, historyLimit)
	// 最旧的被淘汰，最新的保留
	assert.Equal(t, fmt.Sprintf("word-%03d", historyLimit+9), items[0].Word)
	for _, it := range items {
		assert.NotEqual(t, "word-000", it.Word)
	}
}

func TestHistoryRepoSuggest(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.History.Touch("apple", "", "youdao"))
	require.NoError(t, db.History.Touch("application", "", "youdao"))
	require.NoError(t, db.History.Touch("banana", "", "youdao"))
	require.NoError(t, db.History.Touch("apple", "", "youdao"))

	words, err := db.History.Suggest("app", 10)
	require.NoError(t, err)
	// MRU 顺序，最近查过的在前
	assert.Equal(t, []string{"apple", "application"}, words)

	words, err = db.History.Suggest("zzz", 10)
	require.NoError(t, err)
	assert.Empty(t, words)

	// 空前缀不联想
	words, err = db.History.Suggest("", 10)
	require.NoError(t, err)
	assert.Empty(t, words)

	// 通配符按字面量处理
	words, err = db.History.Suggest("%", 10)
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestHistoryRepoRemoveAndClear(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.History.Touch("one", "", "youdao"))
	require.NoError(t, db.History.Touch("two", "", "youdao"))

	require.NoError(t, db.History.Remove("one"))
	items, err := db.History.List()
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, db.History.Clear())
	items, err = db.History.List()
	require.NoError(t, err)
	assert.Empty(t, items)
}
