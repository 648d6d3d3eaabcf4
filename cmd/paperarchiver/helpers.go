package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"PaperArchiver/internal/core"
)

func parseYear(arg string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || year <= 0 {
		return 0, fmt.Errorf("invalid year: %q", arg)
	}
	return year, nil
}

// venueYear 解析 "<venue> <year>" 两个位置参数
func venueYear(args []string) (string, int, error) {
	year, err := parseYear(args[1])
	if err != nil {
		return "", 0, err
	}
	return args[0], year, nil
}

// withApp 使用完后关闭检索索引
func withApp(ctx *commandContext, fn func(app *core.App) error) error {
	app, err := ctx.ensureApp()
	if err != nil {
		return err
	}
	defer ctx.close()
	return fn(app)
}

// delayFromSeconds 配置和命令行的下载间隔都以整秒计
func delayFromSeconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
