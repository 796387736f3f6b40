package run

import (
	"time"

	"github.com/John-Robertt/gallerygen/internal/config"
	"github.com/John-Robertt/gallerygen/internal/domain"
)

// Observer 用于把“运行进度/阶段/单张图片结果”从核心执行流程中解耦出来。
//
// 约束：run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// 事件全部来自调用 Execute 的 goroutine。
type Observer interface {
	// OnStart 在 Execute 开始时调用。
	OnStart(eff config.EffectiveConfig)
	// OnPhaseDone 在阶段结束时调用：prepare / scan / copy / pages / index。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnImageDone 在一张图片完成探测、分列并写出详情页后调用。
	OnImageDone(idx, total int, res domain.ImageResult, dur time.Duration)
}
