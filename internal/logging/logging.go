package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel 把字符串日志级别转换为 zerolog.Level，未知值按 INFO 处理
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup 创建日志器：format 为 console 时输出带颜色的可读格式，否则输出 JSON
func Setup(level, format string, w io.Writer) zerolog.Logger {
	out := w
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
}
