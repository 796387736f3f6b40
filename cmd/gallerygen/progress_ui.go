package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/John-Robertt/gallerygen/internal/app/run"
	"github.com/John-Robertt/gallerygen/internal/config"
	"github.com/John-Robertt/gallerygen/internal/domain"
)

var _ run.Observer = (*progressUI)(nil)

// progressUI 是交互终端下的简洁进度输出。
//
// 所有过程信息写到 stderr（或 fallback 到 stdout），不污染 stdout 的 JSON 输出契约。
// run 层是单 goroutine 顺序执行，这里不需要加锁。
type progressUI struct {
	w io.Writer

	startedAt time.Time
	// every 控制逐张图片输出的间隔（图片很多时只打印每第 N 张与最后一张）。
	every int
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{w: w, every: 1}
}

func (p *progressUI) OnStart(eff config.EffectiveConfig) {
	p.startedAt = time.Now()

	fmt.Fprintf(p.w, "[%s] gallerygen build\n", p.startedAt.Format("15:04:05"))
	fmt.Fprintln(p.w, "配置（生效）:")
	fmt.Fprintf(p.w, "  root: %s\n", eff.Root)
	fmt.Fprintf(p.w, "  src: %s\n", eff.SrcDir)
	fmt.Fprintf(p.w, "  out: %s\n", eff.OutDir)
	fmt.Fprintf(p.w, "  base_url: %s\n", truncate(eff.BaseURL, 120))
	fmt.Fprintln(p.w)
}

func (p *progressUI) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	switch name {
	case "prepare":
		// 目录创建很快，不单独占一行。
	case "scan":
		n := intField(fields, "images")
		fmt.Fprintf(p.w, "扫描: files=%d images=%d (%s)\n",
			intField(fields, "files"), n, formatShortDuration(dur),
		)
		// 大目录下降低逐行输出频率，保持约 50 行以内。
		if n > 50 {
			p.every = (n + 49) / 50
		}
	case "copy":
		fmt.Fprintf(p.w, "复制: files=%d bytes=%s (%s)\n",
			intField(fields, "files"), formatBytes(int64Field(fields, "bytes")), formatShortDuration(dur),
		)
	case "pages":
		fmt.Fprintf(p.w, "详情页: pages=%d (%s)\n", intField(fields, "pages"), formatShortDuration(dur))
	case "index":
		fmt.Fprintf(p.w, "首页: total=%d a1=%d a2=%d (%s)\n",
			intField(fields, "total"), intField(fields, "a1"), intField(fields, "a2"), formatShortDuration(dur),
		)
		fmt.Fprintf(p.w, "耗时: %s\n", formatElapsed(time.Since(p.startedAt)))
	default:
		// 兜底：未知阶段也不要静默（便于调试/演进）。
		fmt.Fprintf(p.w, "%s (%s)\n", name, formatShortDuration(dur))
	}
}

func (p *progressUI) OnImageDone(idx, total int, res domain.ImageResult, dur time.Duration) {
	if p.every > 1 && idx%p.every != 0 && idx != total {
		return
	}
	fmt.Fprintf(p.w, "[%d/%d] %s %dx%d col=%d -> %s (%s)\n",
		idx, total, truncate(res.Name, 80), res.Width, res.Height, res.Column, res.Page, formatShortDuration(dur),
	)
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for x := n / unit; x >= unit; x /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int(d.Seconds())
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func intField(fields map[string]any, key string) int {
	return int(int64Field(fields, key))
}

func int64Field(fields map[string]any, key string) int64 {
	if fields == nil {
		return 0
	}
	v, ok := fields[key]
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case int:
		return int64(x)
	case int64:
		return x
	default:
		return 0
	}
}
