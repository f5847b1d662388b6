package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestParseLevel 测试日志级别解析
func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"未知级别默认info", "unknown", slog.LevelInfo},
		{"空字符串默认info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLevel(tt.input)
			if got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, 期望 %v", tt.input, got, tt.expected)
			}
		})
	}
}

// TestLevelTag 测试日志级别标签
func TestLevelTag(t *testing.T) {
	tests := []struct {
		level    slog.Level
		expected string
	}{
		{slog.LevelError, "ERROR"},
		{slog.LevelWarn, "WARN "},
		{slog.LevelInfo, "INFO "},
		{slog.LevelDebug, "DEBUG"},
	}

	for _, tt := range tests {
		if got := levelTag(tt.level); got != tt.expected {
			t.Errorf("levelTag(%v) = %q, 期望 %q", tt.level, got, tt.expected)
		}
	}
}

func TestColorize(t *testing.T) {
	got := colorize(slog.LevelError, "ERROR")
	if got != "\x1b[31mERROR\x1b[0m" {
		t.Errorf("colorize(error) = %q", got)
	}
	got = colorize(slog.LevelWarn, "WARN ")
	if !strings.HasPrefix(got, "\x1b[33m") || !strings.Contains(got, "WARN ") {
		t.Errorf("colorize(warn) = %q", got)
	}
}

// TestFormatAttr 测试属性格式化
func TestFormatAttr(t *testing.T) {
	tests := []struct {
		name     string
		group    string
		attr     slog.Attr
		expected string
	}{
		{"无分组", "", slog.String("key", "value"), "  key=value"},
		{"有分组", "pump", slog.String("dir", "inbound"), "  pump.dir=inbound"},
		{"整数值", "", slog.Int("bytes", 512), "  bytes=512"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatAttr(tt.group, tt.attr)
			if got != tt.expected {
				t.Errorf("formatAttr(%q, %v) = %q, 期望 %q", tt.group, tt.attr, got, tt.expected)
			}
		})
	}
}

// TestConsoleHandlerEnabled 测试 consoleHandler 的级别过滤
func TestConsoleHandlerEnabled(t *testing.T) {
	h := &consoleHandler{level: slog.LevelWarn}

	if !h.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("Warn 级别应该被启用")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("Error 级别应该被启用")
	}
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Info 级别不应该被启用")
	}
}

// TestConsoleHandlerHandle 测试 consoleHandler 的日志输出
func TestConsoleHandlerHandle(t *testing.T) {
	var buf bytes.Buffer
	h := &consoleHandler{w: &buf, level: slog.LevelDebug}

	record := slog.NewRecord(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), slog.LevelInfo, "Connected", 0)
	record.AddAttrs(slog.String("address", "127.0.0.1:23"))

	if err := h.Handle(context.Background(), record); err != nil {
		t.Fatalf("Handle() 返回错误: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"12:00:00", "INFO", "Connected", "address=127.0.0.1:23"} {
		if !strings.Contains(output, want) {
			t.Errorf("输出应包含 %q, 实际: %q", want, output)
		}
	}
	if strings.Contains(output, "\x1b[") {
		t.Errorf("非终端输出不应包含颜色, 实际: %q", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Errorf("输出应以换行符结尾, 实际: %q", output)
	}
}

// TestConsoleHandlerWithAttrs 测试 WithAttrs 创建新 handler
func TestConsoleHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &consoleHandler{w: &buf, level: slog.LevelDebug}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "pump")})

	if len(h.attrs) != 0 {
		t.Error("原始 handler 的 attrs 不应该被修改")
	}

	record := slog.NewRecord(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), slog.LevelInfo, "test", 0)
	if err := h2.Handle(context.Background(), record); err != nil {
		t.Fatalf("Handle() 返回错误: %v", err)
	}

	if !strings.Contains(buf.String(), "component=pump") {
		t.Errorf("输出应包含预设属性, 实际: %q", buf.String())
	}
}

// TestConsoleHandlerWithNestedGroup 测试嵌套分组
func TestConsoleHandlerWithNestedGroup(t *testing.T) {
	var buf bytes.Buffer
	h := &consoleHandler{w: &buf, level: slog.LevelDebug}

	h2 := h.WithGroup("session").WithGroup("conn")

	record := slog.NewRecord(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), slog.LevelInfo, "test", 0)
	record.AddAttrs(slog.String("port", "23"))
	if err := h2.Handle(context.Background(), record); err != nil {
		t.Fatalf("Handle() 返回错误: %v", err)
	}

	if !strings.Contains(buf.String(), "session.conn.port=23") {
		t.Errorf("输出应包含嵌套分组前缀, 实际: %q", buf.String())
	}
}

// TestNewFormats 测试不同格式的 logger 构建
func TestNewFormats(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{"json", func(t *testing.T, out string) {
			var m map[string]any
			if err := json.Unmarshal([]byte(out), &m); err != nil {
				t.Fatalf("json 输出无法解析: %v (%q)", err, out)
			}
			if m["msg"] != "hello" {
				t.Errorf("msg = %v, 期望 hello", m["msg"])
			}
		}},
		{"text", func(t *testing.T, out string) {
			if !strings.Contains(out, "msg=hello") {
				t.Errorf("text 输出 = %q", out)
			}
		}},
		{"console", func(t *testing.T, out string) {
			if !strings.Contains(out, "WARN  hello") {
				t.Errorf("console 输出 = %q", out)
			}
		}},
		{"", func(t *testing.T, out string) {
			if !strings.Contains(out, "WARN  hello") {
				t.Errorf("默认格式应为 console, 输出 = %q", out)
			}
		}},
	}

	for _, tt := range tests {
		t.Run("format_"+tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			l, c, err := New(Config{Level: "warn", Format: tt.format, Output: &buf})
			if err != nil {
				t.Fatalf("New() 返回错误: %v", err)
			}
			if err := c.Close(); err != nil {
				t.Errorf("无文件时 Close() 应为空操作, 实际: %v", err)
			}
			l.Info("filtered")
			l.Warn("hello")
			out := buf.String()
			if strings.Contains(out, "filtered") {
				t.Errorf("低于级别的日志不应输出: %q", out)
			}
			tt.check(t, out)
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telnetc.log")
	l, c, err := New(Config{Level: "debug", Format: "console", File: path})
	if err != nil {
		t.Fatalf("New() 返回错误: %v", err)
	}
	l.Debug("to file", "n", 1)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() 返回错误: %v", err)
	}
	// 文件已关闭, 后续写入失败而不是泄漏句柄
	if f, ok := c.(*os.File); !ok {
		t.Errorf("closer 应为日志文件, 实际 %T", c)
	} else if _, err := f.Write([]byte("x")); err == nil {
		t.Error("Close() 后日志文件应不可写")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if !strings.Contains(string(data), "to file  n=1") {
		t.Errorf("日志文件内容 = %q", data)
	}
}

func TestNewBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "telnetc.log")
	if _, _, err := New(Config{File: path}); err == nil {
		t.Fatal("无法创建的日志文件应返回错误")
	}
}
