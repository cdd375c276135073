package game

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"

	"github.com/gonewx/legends/pkg/config"
)

// maxParallelDecodes 同时下载解码的纹理数
const maxParallelDecodes = 4

// ErrLoadPending 资源尚未加载完成
var ErrLoadPending = errors.New("legend assets still loading")

// DecodedAssets CPU 侧解码完成的卡牌资源
type DecodedAssets struct {
	Manifest *config.LegendManifest
	Index    int
	// Normal 已重采样到卡背遮罩尺寸的法线贴图
	Normal image.Image
	// Back 与 Border 为白色 + alpha 的遮罩
	Back   *image.NRGBA
	Border *image.NRGBA
	Layers []image.Image
}

// LegendAssets 已上传到 GPU 的卡牌资源
type LegendAssets struct {
	Manifest *config.LegendManifest
	Index    int
	Normal   *ebiten.Image
	Back     *ebiten.Image
	Border   *ebiten.Image
	Layers   []*ebiten.Image
}

// Upload 创建 GPU 图像，需在游戏循环中调用
func (d *DecodedAssets) Upload() *LegendAssets {
	a := &LegendAssets{
		Manifest: d.Manifest,
		Index:    d.Index,
		Normal:   ebiten.NewImageFromImage(d.Normal),
		Back:     ebiten.NewImageFromImage(d.Back),
		Border:   ebiten.NewImageFromImage(d.Border),
		Layers:   make([]*ebiten.Image, 0, len(d.Layers)),
	}
	for _, l := range d.Layers {
		a.Layers = append(a.Layers, ebiten.NewImageFromImage(l))
	}
	return a
}

// LoadState 加载进度
type LoadState int

const (
	LoadPending LoadState = iota
	LoadReady
	LoadFailed
)

// AssetLoader 在后台读取清单并并行解码所有纹理
//
// 加载场景每帧轮询 State()，就绪后取 Result() 上传到 GPU。
type AssetLoader struct {
	source AssetSource
	index  int

	mu      sync.Mutex
	state   LoadState
	decoded *DecodedAssets
	err     error
	cancel  context.CancelFunc
}

// NewAssetLoader 创建加载器
func NewAssetLoader(source AssetSource, index int) *AssetLoader {
	return &AssetLoader{source: source, index: index}
}

// Start 在后台 goroutine 中加载；重复调用无效
func (l *AssetLoader) Start(ctx context.Context) {
	l.mu.Lock()
	if l.cancel != nil {
		l.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	go func() {
		decoded, err := l.Load(ctx)

		l.mu.Lock()
		defer l.mu.Unlock()
		if err != nil {
			l.state, l.err = LoadFailed, err
			log.Printf("[AssetLoader] 卡牌 #%d 加载失败: %v", l.index, err)
			return
		}
		l.state, l.decoded = LoadReady, decoded
		log.Printf("[AssetLoader] 卡牌 #%d 加载完成: %d 个视差层", l.index, len(decoded.Layers))
	}()
}

// Cancel 取消后台加载
func (l *AssetLoader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
}

// State 当前加载状态
func (l *AssetLoader) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Result 返回加载结果；尚未完成时返回 ErrLoadPending
func (l *AssetLoader) Result() (*DecodedAssets, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case LoadReady:
		return l.decoded, nil
	case LoadFailed:
		return nil, l.err
	}
	return nil, ErrLoadPending
}

// Load 同步加载清单与全部纹理
//
// 任一纹理失败则整体失败，不使用占位图。
func (l *AssetLoader) Load(ctx context.Context) (*DecodedAssets, error) {
	data, err := l.source.Fetch(ctx, l.source.ManifestPath(l.index))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest: %w", err)
	}
	manifest, err := config.ParseLegendManifest(data)
	if err != nil {
		return nil, err
	}

	out := &DecodedAssets{
		Manifest: manifest,
		Index:    l.index,
		Layers:   make([]image.Image, len(manifest.Maps.Layers)),
	}
	var normal, back, border image.Image

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDecodes)
	fetch := func(p string, dst *image.Image) {
		g.Go(func() error {
			raw, err := l.source.Fetch(gctx, p)
			if err != nil {
				return err
			}
			img, err := DecodeImage(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			*dst = img
			return nil
		})
	}
	fetch(manifest.Maps.Normal, &normal)
	fetch(manifest.Maps.Back, &back)
	fetch(manifest.Maps.Border, &border)
	for i, p := range manifest.Maps.Layers {
		fetch(p, &out.Layers[i])
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load textures: %w", err)
	}

	out.Back = AlphaMask(back)
	out.Border = AlphaMask(border)
	out.Normal = ResizeImage(normal, out.Back.Bounds().Size())
	return out, nil
}

// NewLoadedAssets 返回一个已经完成的加载器，用于本地生成的资源
func NewLoadedAssets(decoded *DecodedAssets, err error) *AssetLoader {
	l := &AssetLoader{cancel: func() {}}
	if err != nil {
		l.state, l.err = LoadFailed, err
		return l
	}
	l.state, l.decoded, l.index = LoadReady, decoded, decoded.Index
	return l
}
