package domain

import (
	"encoding/json"
	"time"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

const (
	ErrCodeIOFailed          = "io_failed"
	ErrCodeUnsupportedFormat = "unsupported_format"
	ErrCodeMissingExtension  = "missing_extension"
	ErrCodeConfigInvalid     = "config_invalid"
	ErrCodePageConflict      = "page_conflict"
	ErrCodeCheckFailed       = "check_failed"
)

// BuildReport 是对外稳定输出（stdout JSON）的结构。
type BuildReport struct {
	Src     string `json:"src"`
	Out     string `json:"out"`
	BaseURL string `json:"base_url"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`

	Summary BuildSummary   `json:"summary"`
	Columns []ColumnReport `json:"columns"`
	Images  []ImageResult  `json:"images"`
}

type BuildSummary struct {
	Images int `json:"images"`
	Pages  int `json:"pages"`
	Copied int `json:"copied"`
}

type ColumnReport struct {
	Index int  `json:"index"`
	Count int  `json:"count"`
	Width uint `json:"width"`
}

type ImageResult struct {
	Name   string `json:"name"`
	Width  uint   `json:"width"`
	Height uint   `json:"height"`
	Column int    `json:"column"`
	Page   string `json:"page"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC
// 2) status 由 error_code 推导（没有错误即 ok）
// 3) summary.images/pages 由 images 计算得出（copied 由执行阶段累计，保持不变）
func (r *BuildReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	if r.ErrorCode == "" {
		r.Status = StatusOK
	} else {
		r.Status = StatusFailed
	}

	if r.Columns == nil {
		r.Columns = []ColumnReport{}
	}
	if r.Images == nil {
		r.Images = []ImageResult{}
	}

	pages := 0
	for _, it := range r.Images {
		if it.Page != "" {
			pages++
		}
	}
	r.Summary.Images = len(r.Images)
	r.Summary.Pages = pages
}

// ColumnsFromPlan 把 LayoutPlan 的三列压缩为报告用的统计。
func ColumnsFromPlan(p LayoutPlan) []ColumnReport {
	out := make([]ColumnReport, 0, ColumnCount)
	for _, c := range p.Columns {
		out = append(out, ColumnReport{Index: c.Index, Count: len(c.Members), Width: c.Width})
	}
	return out
}

// MarshalJSON 仅用于集中约束输出的稳定性（避免未来不小心引入非确定字段）。
func (r BuildReport) MarshalJSON() ([]byte, error) {
	type Alias BuildReport
	return json.Marshal(Alias(r))
}

// CheckReport 是 check 命令的输出：对已生成站点的一致性检查结果。
type CheckReport struct {
	Out      string         `json:"out"`
	Images   int            `json:"images"`
	Problems []CheckProblem `json:"problems"`
}

// CheckProblem 描述一个缺失的引用。Kind: "image" | "page" | "asset"。
type CheckProblem struct {
	Kind string `json:"kind"`
	Ref  string `json:"ref"`
	Msg  string `json:"msg"`
}

// OK 报告检查是否没有发现问题。
func (r CheckReport) OK() bool { return len(r.Problems) == 0 }
