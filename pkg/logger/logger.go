package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var (
	levelNames = map[Level]string{
		DEBUG: "DEBUG",
		INFO:  "INFO",
		WARN:  "WARN",
		ERROR: "ERROR",
	}
	levelColors = map[Level]string{
		DEBUG: "\033[36m",
		INFO:  "\033[32m",
		WARN:  "\033[33m",
		ERROR: "\033[31m",
	}
	reset = "\033[0m"
)

// Logger 带级别的日志器，prefix 用于区分组件，如 [Archive]
type Logger struct {
	mu       *sync.Mutex
	level    *Level
	out      io.Writer
	std      *log.Logger
	prefix   string
	useColor bool
}

var (
	std     *Logger
	stdOnce sync.Once
)

func newLogger(level Level, out io.Writer, useColor bool) *Logger {
	l := level
	return &Logger{
		mu:       &sync.Mutex{},
		level:    &l,
		out:      out,
		std:      log.New(out, "", log.Ldate|log.Ltime),
		useColor: useColor,
	}
}

func Init(level string, useColor bool) {
	stdOnce.Do(func() {
		std = newLogger(parseLevel(level), os.Stderr, useColor)
	})
}

// InitWithFile 日志写入文件，打开失败时回退到 stderr
func InitWithFile(level string, useColor bool, logFile string) {
	stdOnce.Do(func() {
		var out io.Writer = os.Stderr
		if logFile != "" {
			if file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
				out = io.MultiWriter(os.Stderr, file)
				useColor = false
			}
		}
		std = newLogger(parseLevel(level), out, useColor)
	})
}

func Get() *Logger {
	if std == nil {
		Init("INFO", true)
	}
	return std
}

func SetLevel(level string) {
	l := Get()
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.level = parseLevel(level)
}

// SetOutput 替换输出目标，测试里用来捕获日志
func SetOutput(w io.Writer) {
	l := Get()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	l.std.SetOutput(w)
}

func parseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func Debug(format string, v ...interface{}) { Get().log(DEBUG, format, v...) }

func Info(format string, v ...interface{}) { Get().log(INFO, format, v...) }

func Warn(format string, v ...interface{}) { Get().log(WARN, format, v...) }

func Error(format string, v ...interface{}) { Get().log(ERROR, format, v...) }

func Fatal(format string, v ...interface{}) {
	Get().log(ERROR, format, v...)
	os.Exit(1)
}

func (l *Logger) Debug(format string, v ...interface{}) { l.log(DEBUG, format, v...) }

func (l *Logger) Info(format string, v ...interface{}) { l.log(INFO, format, v...) }

func (l *Logger) Warn(format string, v ...interface{}) { l.log(WARN, format, v...) }

func (l *Logger) Error(format string, v ...interface{}) { l.log(ERROR, format, v...) }

func (l *Logger) log(level Level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < *l.level {
		return
	}

	msg := fmt.Sprintf(format, v...)
	levelStr := levelNames[level]

	var output string
	if l.useColor {
		output = fmt.Sprintf("%s[%s]%s %s", levelColors[level], levelStr, reset, msg)
	} else {
		output = fmt.Sprintf("[%s] %s", levelStr, msg)
	}

	if l.prefix != "" {
		output = fmt.Sprintf("[%s] %s", l.prefix, output)
	}

	l.std.Println(output)
}

// WithPrefix 派生一个带组件前缀的日志器，与全局日志器共享级别和输出
func WithPrefix(prefix string) *Logger {
	parent := Get()
	return &Logger{
		mu:       parent.mu,
		level:    parent.level,
		out:      parent.out,
		std:      parent.std,
		prefix:   prefix,
		useColor: parent.useColor,
	}
}

// WithPrefix 在已有前缀后追加一段，如 [Archive:1a2b3c4d]
func (l *Logger) WithPrefix(prefix string) *Logger {
	if l.prefix != "" {
		prefix = l.prefix + ":" + prefix
	}
	return &Logger{
		mu:       l.mu,
		level:    l.level,
		out:      l.out,
		std:      l.std,
		prefix:   prefix,
		useColor: l.useColor,
	}
}
