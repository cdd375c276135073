package game

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"
)

// maxAssetBytes 单个资源的大小上限
const maxAssetBytes = 64 << 20

// AssetSource 卡牌清单与纹理的来源
type AssetSource interface {
	// ManifestPath 返回编号为 index 的卡牌清单路径
	ManifestPath(index int) string
	// Fetch 读取一个资源；path 可以带前导斜杠
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// NewAssetSource 根据 location 选择来源：http(s) 地址走网络，其余视为本地目录
func NewAssetSource(location string) AssetSource {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{Host: strings.TrimRight(location, "/")}
	}
	return &FSSource{FS: os.DirFS(location)}
}

// HTTPSource 从资源服务器读取
type HTTPSource struct {
	Host   string
	Client *http.Client
}

// ManifestPath 服务端的清单路由
func (s *HTTPSource) ManifestPath(index int) string {
	return fmt.Sprintf("/legend-manifest/%d/", index)
}

// Fetch 发起 GET 请求，非 200 状态视为失败
func (s *HTTPSource) Fetch(ctx context.Context, p string) ([]byte, error) {
	url := s.Host + "/" + strings.TrimLeft(p, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	if len(data) > maxAssetBytes {
		return nil, fmt.Errorf("asset %s exceeds %d bytes", url, maxAssetBytes)
	}
	return data, nil
}

// FSSource 从文件系统读取（本地目录或测试用的内存文件系统）
type FSSource struct {
	FS fs.FS
}

// ManifestPath 本地目录中的清单文件
func (s *FSSource) ManifestPath(index int) string {
	return fmt.Sprintf("legend-manifest/%d.json", index)
}

// Fetch 读取文件，路径按 fs.FS 规则清理
func (s *FSSource) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := path.Clean(strings.TrimLeft(p, "/"))
	data, err := fs.ReadFile(s.FS, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
