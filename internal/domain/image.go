package domain

// ImageEntry 描述一张已探测尺寸的源图片（探测后不可变）。
//
// 不变量：
// - Name 是源目录内的文件名（不含目录），同一次运行内唯一
// - Width/Height 来自图片头部，不做 EXIF 方向修正
type ImageEntry struct {
	Name   string
	Width  uint
	Height uint
}

// SourceFile 描述一次扫描得到的源目录条目（不读内容）。
type SourceFile struct {
	AbsPath string
	Name    string
}
