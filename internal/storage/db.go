package storage

import (
	"os"
	"path/filepath"
	"runtime"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const historyLimit = 50

// DB 封装数据库连接和各仓库
type DB struct {
	gdb *gorm.DB

	Settings    *SettingsRepo
	Credentials *CredentialsRepo
	Favorites   *FavoritesRepo
	History     *HistoryRepo
}

// Open 打开指定路径的数据库并执行迁移。path 为空时使用默认位置
func Open(path string) (*DB, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	// 确保目录存在
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := gdb.AutoMigrate(
		&Setting{},
		&Credential{},
		&FavoriteItem{},
		&LookupHistory{},
	); err != nil {
		return nil, err
	}

	return &DB{
		gdb:         gdb,
		Settings:    &SettingsRepo{gdb},
		Credentials: &CredentialsRepo{gdb},
		Favorites:   &FavoritesRepo{gdb},
		History:     &HistoryRepo{gdb},
	}, nil
}

// Close 关闭数据库连接
func (d *DB) Close() error {
	sqlDB, err := d.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DefaultPath 获取跨平台的数据库文件路径
func DefaultPath() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		// %APPDATA%/TranslatorApp/data.db
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			baseDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		// ~/Library/Application Support/TranslatorApp/data.db
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(home, "Library", "Application Support")
	default:
		// Linux: ~/.local/share/TranslatorApp/data.db
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(baseDir, "TranslatorApp", "data.db"), nil
}
