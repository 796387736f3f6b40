package run

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/John-Robertt/gallerygen/internal/config"
	"github.com/John-Robertt/gallerygen/internal/domain"
	"github.com/John-Robertt/gallerygen/internal/infra/fsx"
	"github.com/John-Robertt/gallerygen/internal/infra/imgx"
	"github.com/John-Robertt/gallerygen/internal/layout"
	"github.com/John-Robertt/gallerygen/internal/scan"
	"github.com/John-Robertt/gallerygen/internal/site"
)

// 可替换的探测函数，测试用来模拟探测失败。
var probeFunc = imgx.Dimensions

// Error 记录中止运行的阶段与文件，便于定位。
type Error struct {
	Stage string // prepare / scan / copy / probe / page / index
	Name  string // 相关文件名（可为空）
	Err   error
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("stage=%s file=%s: %v", e.Stage, e.Name, e.Err)
	}
	return fmt.Sprintf("stage=%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code 把 error 归类为对外稳定的 error_code。
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case imgx.IsUnsupportedFormat(err):
		return domain.ErrCodeUnsupportedFormat
	case site.IsMissingExtension(err):
		return domain.ErrCodeMissingExtension
	case site.IsPageConflict(err):
		return domain.ErrCodePageConflict
	case config.Code(err) != "":
		return domain.ErrCodeConfigInvalid
	default:
		return domain.ErrCodeIOFailed
	}
}

// Execute 执行一次完整生成，返回报告；任何错误都会立即中止（不回滚已写出的文件）。
func Execute(ctx context.Context, eff config.EffectiveConfig) (domain.BuildReport, error) {
	return ExecuteWithObserver(ctx, eff, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 以输出进度/阶段信息。
//
// 顺序（固定）：
// 1) 创建 <out> 与 <out>/imgs
// 2) 列出源目录（字典序反转）
// 3) 复制全部源文件到 <out>/imgs，样式表复制到 <out>
// 4) 单次遍历图片：探测尺寸 -> 分列 -> 写详情页
// 5) 按 LayoutPlan 写 index.html
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, obs Observer) (domain.BuildReport, error) {
	rr := domain.BuildReport{
		Src:       eff.SrcDir,
		Out:       eff.OutDir,
		BaseURL:   eff.BaseURL,
		StartedAt: time.Now().UTC(),
	}
	if obs != nil {
		obs.OnStart(eff)
	}

	err := execute(ctx, eff, obs, &rr)
	if err != nil {
		rr.ErrorCode = Code(err)
		rr.ErrorMsg = err.Error()
	}
	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr, err
}

func execute(ctx context.Context, eff config.EffectiveConfig, obs Observer, rr *domain.BuildReport) error {
	imgOut := filepath.Join(eff.OutDir, site.ImgDir)

	started := time.Now()
	for _, d := range []string{eff.OutDir, imgOut} {
		if err := fsx.EnsureDir(d); err != nil {
			return &Error{Stage: "prepare", Name: d, Err: err}
		}
	}
	phaseDone(obs, "prepare", map[string]any{"out": eff.OutDir}, started)

	started = time.Now()
	files, err := scan.ListSource(eff.SrcDir)
	if err != nil {
		return &Error{Stage: "scan", Err: err}
	}
	images := scan.Images(files)
	phaseDone(obs, "scan", map[string]any{"files": len(files), "images": len(images)}, started)

	started = time.Now()
	var bytes int64
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &Error{Stage: "copy", Err: err}
		}
		n, err := fsx.CopyFile(f.AbsPath, imgOut, f.Name)
		if err != nil {
			return &Error{Stage: "copy", Name: f.Name, Err: err}
		}
		bytes += n
		rr.Summary.Copied++
	}
	for _, css := range scan.Stylesheets {
		n, err := fsx.CopyFile(filepath.Join(eff.SrcDir, css), eff.OutDir, css)
		if err != nil {
			return &Error{Stage: "copy", Name: css, Err: err}
		}
		bytes += n
		rr.Summary.Copied++
	}
	phaseDone(obs, "copy", map[string]any{"files": rr.Summary.Copied, "bytes": bytes}, started)

	started = time.Now()
	packer := layout.NewPacker()
	pages := make(map[string]string, len(images)) // 详情页 -> 图片名
	rr.Images = make([]domain.ImageResult, 0, len(images))
	for i, f := range images {
		if err := ctx.Err(); err != nil {
			return &Error{Stage: "probe", Err: err}
		}
		oneStarted := time.Now()

		res, err := buildOne(eff, f, packer, pages, rr)
		if err != nil {
			return err
		}
		if obs != nil {
			obs.OnImageDone(i+1, len(images), res, time.Since(oneStarted))
		}
	}
	phaseDone(obs, "pages", map[string]any{"pages": len(rr.Images)}, started)

	started = time.Now()
	plan := packer.Plan()
	rr.Columns = domain.ColumnsFromPlan(plan)
	index, err := site.RenderIndex(plan)
	if err != nil {
		return &Error{Stage: "index", Name: site.IndexName, Err: err}
	}
	if err := fsx.WriteFile(eff.OutDir, site.IndexName, index); err != nil {
		return &Error{Stage: "index", Name: site.IndexName, Err: err}
	}
	phaseDone(obs, "index", map[string]any{"a1": plan.A1, "a2": plan.A2, "total": plan.Len()}, started)
	return nil
}

// buildOne 处理一张图片：探测 -> 分列 -> 写详情页，并把结果追加到报告。
func buildOne(eff config.EffectiveConfig, f domain.SourceFile, packer *layout.Packer, pages map[string]string, rr *domain.BuildReport) (domain.ImageResult, error) {
	w, h, err := probeFunc(f.AbsPath)
	if err != nil {
		return domain.ImageResult{}, &Error{Stage: "probe", Name: f.Name, Err: err}
	}

	// 先确认能推导出详情页文件名，再入列；避免 plan 中出现没有详情页的图片。
	page, err := site.PageName(f.Name)
	if err != nil {
		return domain.ImageResult{}, &Error{Stage: "page", Name: f.Name, Err: err}
	}
	// 同名详情页会被后写的覆盖（首页最后写，会覆盖 index.html 详情页），直接中止。
	if page == site.IndexName {
		return domain.ImageResult{}, &Error{Stage: "page", Name: f.Name, Err: &site.PageConflictError{Name: f.Name, Page: page}}
	}
	if other, ok := pages[page]; ok {
		return domain.ImageResult{}, &Error{Stage: "page", Name: f.Name, Err: &site.PageConflictError{Name: f.Name, Page: page, Other: other}}
	}
	pages[page] = f.Name

	entry := domain.ImageEntry{Name: f.Name, Width: w, Height: h}
	col := packer.Add(entry)

	res := domain.ImageResult{Name: f.Name, Width: w, Height: h, Column: col}
	rr.Images = append(rr.Images, res)

	html, err := site.RenderPage(f.Name, eff.BaseURL)
	if err != nil {
		return res, &Error{Stage: "page", Name: f.Name, Err: err}
	}
	if err := fsx.WriteFile(eff.OutDir, page, html); err != nil {
		return res, &Error{Stage: "page", Name: page, Err: err}
	}

	res.Page = page
	rr.Images[len(rr.Images)-1] = res
	return res, nil
}

func phaseDone(obs Observer, name string, fields map[string]any, started time.Time) {
	if obs == nil {
		return
	}
	obs.OnPhaseDone(name, fields, time.Since(started))
}

// IsCanceled 报告运行是否因 ctx 取消而中止。
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
