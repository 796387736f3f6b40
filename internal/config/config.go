package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// FileName 是可选配置文件名，位置固定在 <root>/gallery.json。
	FileName = "gallery.json"

	DefaultSrcDir  = "imgs"
	DefaultOutDir  = "public"
	DefaultBaseURL = "https://slnq.github.io/photos"
)

// CLIArgs 是 CLI 暴露的入口，并保留“是否显式指定”的信息，用于实现 CLI > config > 默认 的覆盖顺序。
type CLIArgs struct {
	Root string

	Out    string
	OutSet bool

	BaseURL    string
	BaseURLSet bool
}

// FileConfig 对应 gallery.json 的解析结构。
type FileConfig struct {
	SrcDir  string `json:"src_dir"`
	OutDir  string `json:"out_dir"`
	BaseURL string `json:"base_url"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（路径均为 clean + absolute）。
type EffectiveConfig struct {
	Root    string
	SrcDir  string
	OutDir  string
	BaseURL string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s：配置 %q 无效", e.Code, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取可选的 <root>/gallery.json，并与 CLI 参数合并为最终配置。
//
// - root：CLI 给出则以 cwd 为基准解析，否则就是 cwd
// - out_dir / base_url：CLI > config > 默认
// - src_dir：仅由 config 控制（默认 imgs）
// - 相对路径一律相对 root
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	root := cwdAbs
	if strings.TrimSpace(cli.Root) != "" {
		root = absCleanFrom(cwdAbs, cli.Root)
	}

	cfgPath := filepath.Join(root, FileName)
	fc, _, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	return merge(root, cli, fc, cfgPath)
}

func merge(root string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	src := DefaultSrcDir
	if strings.TrimSpace(fc.SrcDir) != "" {
		src = fc.SrcDir
	}

	out := DefaultOutDir
	if cli.OutSet {
		out = cli.Out
	} else if strings.TrimSpace(fc.OutDir) != "" {
		out = fc.OutDir
	}
	if strings.TrimSpace(out) == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("out_dir 不能为空")}
	}

	baseURL := DefaultBaseURL
	if cli.BaseURLSet {
		baseURL = cli.BaseURL
	} else if strings.TrimSpace(fc.BaseURL) != "" {
		baseURL = fc.BaseURL
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("base_url 必须是 http/https 地址：%q", baseURL)}
	}

	srcAbs := absCleanFrom(root, src)
	outAbs := absCleanFrom(root, out)
	// 输出目录不能与源目录重合，也不能位于源目录内部（否则下一次运行会把 public/ 当成子目录扫描）。
	if outAbs == srcAbs || strings.HasPrefix(outAbs, srcAbs+string(filepath.Separator)) {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("out_dir 不能是 src_dir 或其子目录：%q", outAbs)}
	}

	return EffectiveConfig{
		Root:    root,
		SrcDir:  srcAbs,
		OutDir:  outAbs,
		BaseURL: baseURL,
	}, nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
