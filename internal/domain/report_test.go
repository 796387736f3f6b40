package domain

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestBuildReport_Finalize_StatusSummaryAndUTC(t *testing.T) {
	r := BuildReport{
		Src:        "/abs/imgs",
		Out:        "/abs/public",
		StartedAt:  time.Date(2026, 2, 9, 10, 0, 0, 0, time.FixedZone("X", 8*3600)),
		FinishedAt: time.Date(2026, 2, 9, 10, 0, 1, 0, time.FixedZone("X", 8*3600)),
		Images: []ImageResult{
			{Name: "b.jpg", Page: "b.html"},
			{Name: "a.jpg", Page: "a.html"},
			{Name: "c.jpg"}, // 探测成功但页面尚未写出
		},
	}

	r.Finalize()

	if r.Status != StatusOK {
		t.Fatalf("无错误时 status 应为 ok，实际=%q", r.Status)
	}
	if r.Summary.Images != 3 || r.Summary.Pages != 2 {
		t.Fatalf("summary 统计不正确：%+v", r.Summary)
	}
	// images 保持处理顺序，不排序。
	if r.Images[0].Name != "b.jpg" || r.Images[1].Name != "a.jpg" {
		t.Fatalf("images 顺序被改变：%+v", r.Images)
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	if !bytes.Contains(b, []byte("\"started_at\":\"2026-02-09T02:00:00Z\"")) {
		t.Fatalf("started_at 不是 UTC RFC3339：%s", string(b))
	}
	if !bytes.Contains(b, []byte("\"columns\":[]")) {
		t.Fatalf("columns 为空时应输出 []：%s", string(b))
	}
}

func TestBuildReport_Finalize_Failed(t *testing.T) {
	r := BuildReport{ErrorCode: ErrCodeUnsupportedFormat, ErrorMsg: "x"}
	r.Finalize()
	if r.Status != StatusFailed {
		t.Fatalf("有 error_code 时 status 应为 failed，实际=%q", r.Status)
	}
}
