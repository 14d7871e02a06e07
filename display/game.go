package display

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/wippyai/cartridge-host/errors"
	"github.com/wippyai/cartridge-host/gpu"
	"github.com/wippyai/cartridge-host/input"
	"github.com/wippyai/cartridge-host/machine"
	"github.com/wippyai/cartridge-host/protocol"
)

// maxBatch is the vertex limit of one DrawTriangles call, a multiple of 3.
const maxBatch = 65535

// Game runs a started machine inside an ebiten window. Each tick runs one
// machine frame; each draw paints the projected gpu triangles and then the
// guest framebuffer over them.
type Game struct {
	ctx      context.Context
	m        *machine.Machine
	keyboard *Keyboard
	rec      gpu.Recorder
	tris     []gpu.ScreenTriangle
	verts    []ebiten.Vertex
	idx      []uint16
	fb       []byte
	fbImg    *ebiten.Image
	white    *ebiten.Image
	textures map[textureKey]*ebiten.Image
	width    int
	height   int
	noFB     bool
}

type textureKey struct {
	id       uint64
	fallback bool
}

// NewGame drives m, which must be started and use state as its input source.
func NewGame(ctx context.Context, m *machine.Machine, state *input.State) *Game {
	cfg := m.Config()
	w, h := int(cfg.ScreenWidth), int(cfg.ScreenHeight)
	white := ebiten.NewImage(1, 1)
	white.WritePixels([]byte{255, 255, 255, 255})
	return &Game{
		ctx:      ctx,
		m:        m,
		keyboard: NewKeyboard(state),
		fb:       make([]byte, w*h*4),
		fbImg:    ebiten.NewImage(w, h),
		white:    white,
		textures: make(map[textureKey]*ebiten.Image),
		width:    w,
		height:   h,
	}
}

// Run opens the window and blocks until it closes, ctx is done or the
// machine fails.
func Run(ctx context.Context, m *machine.Machine, state *input.State, title string, scale int) error {
	g := NewGame(ctx, m, state)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(g.width*max(scale, 1), g.height*max(scale, 1))
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.keyboard.Poll()
	g.rec.Reset()
	if err := g.m.Frame(g.ctx, &g.rec); err != nil {
		return err
	}
	if g.noFB {
		return nil
	}
	err := g.m.Framebuffer(g.ctx, g.fb)
	switch {
	case err == nil:
		g.fbImg.WritePixels(g.fb)
	case errors.Is(err, &errors.Error{Phase: errors.PhaseRuntime, Kind: errors.KindNotFound}):
		Logger().Info("cartridge has no framebuffer export", zap.Error(err))
		g.noFB = true
	default:
		return err
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	cam := g.m.Camera().Get()
	viewProj := gpu.Projection(float32(g.width) / float32(g.height)).Mul4(cam.View())

	g.tris = g.tris[:0]
	for _, call := range g.rec.Calls {
		g.tris = gpu.Project(g.tris, call, viewProj, float32(g.width), float32(g.height))
	}
	gpu.SortFarToNear(g.tris)
	g.drawTriangles(screen)

	if !g.noFB {
		screen.DrawImage(g.fbImg, nil)
	}
}

// drawTriangles batches runs of triangles sharing a texture.
func (g *Game) drawTriangles(screen *ebiten.Image) {
	var img *ebiten.Image
	flush := func() {
		if len(g.verts) > 0 {
			screen.DrawTriangles(g.verts, g.idx, img, nil)
		}
		g.verts, g.idx = g.verts[:0], g.idx[:0]
	}

	for _, t := range g.tris {
		ti := g.texture(t.Texture)
		if ti != img || len(g.verts)+3 > maxBatch {
			flush()
			img = ti
		}
		b := img.Bounds()
		tw, th := float32(b.Dx()), float32(b.Dy())
		for _, v := range t.V {
			g.idx = append(g.idx, uint16(len(g.verts)))
			g.verts = append(g.verts, ebiten.Vertex{
				DstX: v.X, DstY: v.Y,
				SrcX: v.U * tw, SrcY: v.V * th,
				ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
			})
		}
	}
	flush()
}

// texture returns the uploaded image for ref. Registered textures are
// immutable, so images are cached for the life of the game.
func (g *Game) texture(ref *gpu.TextureRef) *ebiten.Image {
	if !uploadable(ref) {
		return g.white
	}
	key := textureKey{id: uint64(ref.ID)}
	if ref.Fallback {
		key = textureKey{fallback: true}
	}
	if img, ok := g.textures[key]; ok {
		return img
	}
	img := ebiten.NewImage(int(ref.Width), int(ref.Height))
	img.WritePixels(ref.Pixels)
	g.textures[key] = img
	Logger().Debug("texture uploaded",
		zap.Uint64("id", key.id),
		zap.Bool("fallback", key.fallback))
	return img
}

// uploadable reports whether ref describes an image ebiten can hold.
func uploadable(ref *gpu.TextureRef) bool {
	if ref == nil || ref.Width == 0 || ref.Height == 0 {
		return false
	}
	if ref.Width > protocol.MaxTextureSize || ref.Height > protocol.MaxTextureSize {
		return false
	}
	return uint64(len(ref.Pixels)) == uint64(ref.Width)*uint64(ref.Height)*4
}

func (g *Game) Layout(int, int) (int, int) {
	return g.width, g.height
}
