package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Downloader 把远程产物流式写到目标路径
// 先写同目录下的临时文件，完整写入并 fsync 后再 rename，中途失败不会留下截断的文件
type Downloader struct {
	fetcher Fetcher
	header  http.Header
}

func NewDownloader(fetcher Fetcher, header http.Header) *Downloader {
	if header == nil {
		header = http.Header{}
	}
	return &Downloader{fetcher: fetcher, header: header}
}

// Save 下载 url 到 target，返回写入的字节数
func (d *Downloader) Save(ctx context.Context, url, target string) (int64, error) {
	if d.fetcher == nil {
		return 0, errors.New("downloader has no fetcher")
	}

	body, err := d.fetcher.Fetch(ctx, url, d.header.Clone())
	if err != nil {
		return 0, err
	}
	defer body.Close()

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmp, body)
	if err != nil {
		return n, fmt.Errorf("write %s: %w", target, err)
	}
	if err := tmp.Sync(); err != nil {
		return n, fmt.Errorf("sync %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("close %s: %w", target, err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return n, fmt.Errorf("rename %s: %w", target, err)
	}
	committed = true
	return n, nil
}

// Exists 判断产物是否已经存在（只认普通文件）
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
