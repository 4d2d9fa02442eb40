package storage

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Furry-Xiyi/TranslatorApp/pkg/model"
)

// SettingsRepo 键值设置读写
type SettingsRepo struct {
	gdb *gorm.DB
}

// Get 读取设置，不存在时返回默认值
func (r *SettingsRepo) Get(key, def string) string {
	var s Setting
	if err := r.gdb.First(&s, "key = ?", key).Error; err != nil {
		return def
	}
	return s.Value
}

// Set 写入设置，存在则覆盖
func (r *SettingsRepo) Set(key, value string) error {
	s := Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&s).Error
}

// CredentialsRepo 翻译凭据读写
type CredentialsRepo struct {
	gdb *gorm.DB
}

// Get 读取某服务商的凭据，第二个返回值表示凭据是否完整
func (r *CredentialsRepo) Get(p model.Provider) (model.Credentials, bool) {
	var c Credential
	if err := r.gdb.First(&c, "provider = ?", string(p)).Error; err != nil {
		return model.Credentials{}, false
	}
	creds := model.Credentials{Key: c.Key, Secret: c.Secret}
	if creds.Empty() {
		return model.Credentials{}, false
	}
	// 必应只需要订阅密钥
	if p != model.ProviderBing && creds.Secret == "" {
		return model.Credentials{}, false
	}
	return creds, true
}

// Set 保存某服务商的凭据
func (r *CredentialsRepo) Set(p model.Provider, creds model.Credentials) error {
	c := Credential{
		Provider:  string(p),
		Key:       creds.Key,
		Secret:    creds.Secret,
		UpdatedAt: time.Now(),
	}
	return r.gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"key", "secret", "updated_at"}),
	}).Create(&c).Error
}

// FavoritesRepo 生词本读写
type FavoritesRepo struct {
	gdb *gorm.DB
}

// Add 收藏单词，重复收藏不报错
func (r *FavoritesRepo) Add(word string) error {
	f := FavoriteItem{Word: word, CreatedAt: time.Now()}
	return r.gdb.Clauses(clause.OnConflict{DoNothing: true}).Create(&f).Error
}

// Remove 取消收藏
func (r *FavoritesRepo) Remove(word string) error {
	return r.gdb.Delete(&FavoriteItem{}, "word = ?", word).Error
}

// Contains 单词是否已收藏
func (r *FavoritesRepo) Contains(word string) bool {
	var count int64
	r.gdb.Model(&FavoriteItem{}).Where("word = ?", word).Count(&count)
	return count > 0
}

// List 按收藏时间倒序列出生词本
func (r *FavoritesRepo) List() ([]FavoriteItem, error) {
	var items []FavoriteItem
	err := r.gdb.Order("created_at DESC, id DESC").Find(&items).Error
	return items, err
}

// HistoryRepo 查词历史读写
type HistoryRepo struct {
	gdb *gorm.DB
}

// Touch 记录一次查词。已存在的词提升到最前，超出上限时淘汰最旧
func (r *HistoryRepo) Touch(word, title, site string) error {
	return r.gdb.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		var h LookupHistory
		err := tx.First(&h, "word = ?", word).Error
		switch {
		case err == nil:
			h.LookedAt = now
			h.Site = site
			if title != "" {
				h.Title = title
			}
			if err := tx.Save(&h).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			h = LookupHistory{Word: word, Title: title, Site: site, LookedAt: now, CreatedAt: now}
			if err := tx.Create(&h).Error; err != nil {
				return err
			}
		default:
			return err
		}

		// 淘汰超出上限的旧记录
		var count int64
		if err := tx.Model(&LookupHistory{}).Count(&count).Error; err != nil {
			return err
		}
		if count > historyLimit {
			var stale []LookupHistory
			if err := tx.Order("looked_at ASC, id ASC").Limit(int(count) - historyLimit).Find(&stale).Error; err != nil {
				return err
			}
			for _, s := range stale {
				if err := tx.Delete(&LookupHistory{}, s.ID).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// SetTitle 补写页面标题，标题抓取是异步的
func (r *HistoryRepo) SetTitle(word, title string) error {
	if title == "" {
		return nil
	}
	return r.gdb.Model(&LookupHistory{}).Where("word = ?", word).Update("title", title).Error
}

// List 按最近查询倒序列出历史
func (r *HistoryRepo) List() ([]LookupHistory, error) {
	var items []LookupHistory
	err := r.gdb.Order("looked_at DESC, id DESC").Find(&items).Error
	return items, err
}

// Suggest 按前缀匹配历史词条，用于输入联想，MRU 顺序
func (r *HistoryRepo) Suggest(prefix string, limit int) ([]string, error) {
	if prefix == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	var items []LookupHistory
	err := r.gdb.Where(`word LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%").
		Order("looked_at DESC, id DESC").Limit(limit).Find(&items).Error
	if err != nil {
		return nil, err
	}
	words := make([]string, 0, len(items))
	for _, it := range items {
		words = append(words, it.Word)
	}
	return words, nil
}

// escapeLike 转义 LIKE 模式中的通配符
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// Remove 删除单条历史
func (r *HistoryRepo) Remove(word string) error {
	return r.gdb.Delete(&LookupHistory{}, "word = ?", word).Error
}

// Clear 清空历史
func (r *HistoryRepo) Clear() error {
	return r.gdb.Where("1 = 1").Delete(&LookupHistory{}).Error
}
