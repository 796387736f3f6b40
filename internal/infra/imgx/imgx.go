package imgx

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // 注册 GIF
	_ "image/jpeg" // 注册 JPEG
	_ "image/png"  // 注册 PNG
	"io"
	"os"

	_ "golang.org/x/image/bmp"  // 注册 BMP
	_ "golang.org/x/image/tiff" // 注册 TIFF
	_ "golang.org/x/image/webp" // 注册 WebP
)

// UnsupportedFormatError 表示文件能打开，但无法识别为受支持的图片格式（或头部尺寸无效）。
type UnsupportedFormatError struct {
	Path string
	Err  error
}

func (e *UnsupportedFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("无法识别的图片格式：%q：%v", e.Path, e.Err)
	}
	return fmt.Sprintf("无法识别的图片格式：%q", e.Path)
}

func (e *UnsupportedFormatError) Unwrap() error { return e.Err }

// IsUnsupportedFormat 判断 err 是否为 UnsupportedFormatError。
func IsUnsupportedFormat(err error) bool {
	var e *UnsupportedFormatError
	return errors.As(err, &e)
}

// Dimensions 只读取图片头部，返回像素宽高（不解码像素数据）。
//
// 约束：
// - 打开失败返回原始 os 错误（上层归类为 io_failed）
// - 格式无法识别、或宽高为 0，返回 *UnsupportedFormatError
// - 不考虑 EXIF 旋转（与首页按原始尺寸排版保持一致）
func Dimensions(path string) (width, height uint, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	return DimensionsFrom(path, f)
}

// DimensionsFrom 与 Dimensions 相同，但从 r 读取；name 仅用于错误信息。
func DimensionsFrom(name string, r io.Reader) (width, height uint, err error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return 0, 0, &UnsupportedFormatError{Path: name, Err: err}
		}
		var pe *os.PathError
		if errors.As(err, &pe) {
			return 0, 0, err
		}
		// 其余解码器错误（例如 jpeg.FormatError）都视为格式问题。
		return 0, 0, &UnsupportedFormatError{Path: name, Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, &UnsupportedFormatError{Path: name, Err: errors.New("图片尺寸无效")}
	}
	return uint(cfg.Width), uint(cfg.Height), nil
}
