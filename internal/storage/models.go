package storage

import (
	"time"
)

// Setting 用户设置表
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// 预定义的设置 Key
const (
	SettingKeyTheme           = "theme"
	SettingKeyProvider        = "translate_provider"
	SettingKeyLookupSite      = "lookup_site"
	SettingKeyIgnoredVersion  = "ignored_update_version"
	SettingKeyWhatsNewVersion = "whatsnew_shown_version"
	SettingKeyWindowBounds    = "window_bounds"
	SettingKeyBrowserPath     = "browser_path"
)

// Credential 翻译服务凭据表，每个服务商一行
type Credential struct {
	Provider  string    `gorm:"primaryKey" json:"provider"`
	Key       string    `gorm:"type:text" json:"key"`
	Secret    string    `gorm:"type:text" json:"secret"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FavoriteItem 生词本条目
type FavoriteItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Word      string    `gorm:"uniqueIndex;not null" json:"word"`
	CreatedAt time.Time `json:"createdAt"`
}

// LookupHistory 查词历史。按 MRU 维护，上限 50 条
type LookupHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Word      string    `gorm:"uniqueIndex;not null" json:"word"`
	Title     string    `gorm:"type:text" json:"title"`
	Site      string    `json:"site"`
	LookedAt  time.Time `gorm:"index" json:"lookedAt"`
	CreatedAt time.Time `json:"createdAt"`
}
