package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/John-Robertt/gallerygen/internal/app/run"
	"github.com/John-Robertt/gallerygen/internal/config"
	"github.com/John-Robertt/gallerygen/internal/domain"
	"github.com/John-Robertt/gallerygen/internal/site"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage()
		return
	}

	var code int
	switch args[0] {
	case "build":
		code = buildCmd(args[1:])
	case "check":
		code = checkCmd(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", args[0])
		printUsage()
		code = 2
	}
	if code != 0 {
		os.Exit(code)
	}
}

func buildCmd(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printBuildUsage()
			return 0
		}
	}

	ca, err := parseArgs(args, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printBuildUsage()
		return 2
	}

	eff, err := loadConfig(ca)
	if err != nil {
		now := time.Now().UTC()
		rr := domain.BuildReport{
			StartedAt:  now,
			FinishedAt: now,
			ErrorCode:  domain.ErrCodeConfigInvalid,
			ErrorMsg:   err.Error(),
		}
		rr.Finalize()
		emitBuildReport(rr)
		return 1
	}

	progressW, interactive := pickProgressWriter()
	var obs run.Observer
	if interactive {
		obs = newProgressUI(progressW)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rr, err := run.ExecuteWithObserver(ctx, eff, obs)
	emitBuildReport(rr)
	if err != nil {
		if run.IsCanceled(err) {
			fmt.Fprintln(os.Stderr, "已取消：输出目录可能只更新了一部分，重新运行 build 即可")
		}
		return 1
	}
	if interactive {
		fmt.Fprintf(progressW, "out: %s\n", eff.OutDir)
	}
	return 0
}

func checkCmd(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printCheckUsage()
			return 0
		}
	}

	ca, err := parseArgs(args, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printCheckUsage()
		return 2
	}

	eff, err := loadConfig(ca)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	rep, err := site.Check(eff.OutDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s：读取 %s 失败：%v\n", domain.ErrCodeCheckFailed, site.IndexName, err)
		return 1
	}
	emitCheckReport(rep)
	if !rep.OK() {
		return 1
	}
	return 0
}

type cliArgs struct {
	Root string

	Out    string
	OutSet bool

	BaseURL    string
	BaseURLSet bool
}

// parseArgs 解析 [root] [--out DIR] [--base-url URL]；check 不接受 --base-url。
func parseArgs(args []string, allowBaseURL bool) (cliArgs, error) {
	ca := cliArgs{}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--out":
			if i+1 >= len(args) {
				return cliArgs{}, fmt.Errorf("--out 需要一个值")
			}
			i++
			ca.Out = args[i]
			ca.OutSet = true
		case strings.HasPrefix(a, "--out="):
			ca.Out = strings.TrimPrefix(a, "--out=")
			ca.OutSet = true
		case allowBaseURL && a == "--base-url":
			if i+1 >= len(args) {
				return cliArgs{}, fmt.Errorf("--base-url 需要一个值")
			}
			i++
			ca.BaseURL = args[i]
			ca.BaseURLSet = true
		case allowBaseURL && strings.HasPrefix(a, "--base-url="):
			ca.BaseURL = strings.TrimPrefix(a, "--base-url=")
			ca.BaseURLSet = true
		case strings.HasPrefix(a, "-"):
			return cliArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			if ca.Root != "" {
				return cliArgs{}, fmt.Errorf("重复的 root：%q 与 %q", ca.Root, a)
			}
			ca.Root = a
		}
	}

	if ca.OutSet && strings.TrimSpace(ca.Out) == "" {
		return cliArgs{}, fmt.Errorf("--out 不能为空")
	}
	if ca.BaseURLSet && strings.TrimSpace(ca.BaseURL) == "" {
		return cliArgs{}, fmt.Errorf("--base-url 不能为空")
	}
	return ca, nil
}

func loadConfig(ca cliArgs) (config.EffectiveConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.EffectiveConfig{}, fmt.Errorf("读取当前目录失败：%w", err)
	}
	return config.LoadEffective(cwd, config.CLIArgs{
		Root:       ca.Root,
		Out:        ca.Out,
		OutSet:     ca.OutSet,
		BaseURL:    ca.BaseURL,
		BaseURLSet: ca.BaseURLSet,
	})
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprint(os.Stdout, `用法：
  gallerygen build [root] [--out DIR] [--base-url URL]
  gallerygen check [root] [--out DIR]

命令：
  build  从 <root>/imgs 生成静态画廊到 <root>/public（每次全量重建）
  check  检查已生成站点中的图片/详情页/样式表引用

使用 "gallerygen build --help" 查看详细说明。
`)
}

func printBuildUsage() {
	fmt.Fprint(os.Stdout, `用法：
  gallerygen build [root] [--out DIR] [--base-url URL]

参数：
  root        站点根目录（默认当前目录；可选配置 <root>/gallery.json）
  --out       输出目录（相对 root；默认 public）
  --base-url  社交预览元数据使用的站点地址
  -h, --help  显示帮助
`)
}

func printCheckUsage() {
	fmt.Fprint(os.Stdout, `用法：
  gallerygen check [root] [--out DIR]

参数：
  root        站点根目录（默认当前目录）
  --out       输出目录（相对 root；默认 public）
  -h, --help  显示帮助
`)
}

func emitBuildReport(rr domain.BuildReport) {
	if isTTY(os.Stdout) {
		fmt.Fprintf(os.Stdout, "完成：status=%s images=%d pages=%d copied=%d\n",
			rr.Status, rr.Summary.Images, rr.Summary.Pages, rr.Summary.Copied,
		)
		if rr.ErrorCode != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", rr.ErrorCode, rr.ErrorMsg)
		}
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 BuildReport JSON（摘要走 stderr）。
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(rr)
	fmt.Fprintf(os.Stderr, "完成：status=%s images=%d pages=%d copied=%d\n",
		rr.Status, rr.Summary.Images, rr.Summary.Pages, rr.Summary.Copied,
	)
	if rr.ErrorCode != "" {
		fmt.Fprintf(os.Stderr, "%s: %s\n", rr.ErrorCode, rr.ErrorMsg)
	}
}

func emitCheckReport(rep domain.CheckReport) {
	if !isTTY(os.Stdout) {
		_ = json.NewEncoder(os.Stdout).Encode(rep)
		writeProblems(os.Stderr, rep)
		return
	}
	writeProblems(os.Stdout, rep)
}

func writeProblems(w io.Writer, rep domain.CheckReport) {
	for _, p := range rep.Problems {
		fmt.Fprintf(w, "%s %s: %s\n", p.Kind, p.Ref, p.Msg)
	}
	fmt.Fprintf(w, "检查：images=%d problems=%d\n", rep.Images, len(rep.Problems))
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func pickProgressWriter() (io.Writer, bool) {
	// 进度输出只在交互终端启用；默认走 stderr（不污染 stdout JSON）。
	if isTTY(os.Stderr) {
		return os.Stderr, true
	}
	if isTTY(os.Stdout) {
		return os.Stdout, true
	}
	return nil, false
}
