package main

import (
	"embed"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/Furry-Xiyi/TranslatorApp/internal/config"
	"github.com/Furry-Xiyi/TranslatorApp/internal/gui"
	"github.com/Furry-Xiyi/TranslatorApp/internal/logger"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		println("配置加载失败:", err.Error())
		return
	}

	log := logger.NewDefault(cfg.Debug)
	app := gui.NewApp(cfg, log)

	err = wails.Run(&options.App{
		Title:  "TranslatorApp",
		Width:  1100,
		Height: 760,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 250, G: 250, B: 250, A: 1},
		OnStartup:        app.Startup,
		OnShutdown:       app.Shutdown,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		println("Error:", err.Error())
	}
}
