// Package worldmap renders a top-down view of chunk surfaces.
package worldmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"voxelworld/internal/world"
)

var ErrNoChunks = errors.New("worldmap: no chunks to render")

// Options controls map rendering.
type Options struct {
	// Scale is the pixel size of one column. Values below 1 mean 1.
	Scale int
	// Shade darkens low columns so height reads at a glance.
	Shade bool
	// Label is drawn in the top-left corner when non-empty.
	Label string
}

// Render draws one pixel per column of every chunk, using the surface
// block's base color. Columns of chunks not given stay transparent.
func Render(chunks []*world.Chunk, opts Options) (*image.RGBA, error) {
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	minX, minZ := chunks[0].X, chunks[0].Z
	maxX, maxZ := minX, minZ
	for _, c := range chunks[1:] {
		minX, maxX = min(minX, c.X), max(maxX, c.X)
		minZ, maxZ = min(minZ, c.Z), max(maxZ, c.Z)
	}

	w := (maxX - minX + 1) * world.ChunkSizeX
	h := (maxZ - minZ + 1) * world.ChunkSizeZ
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for _, c := range chunks {
		ox := (c.X - minX) * world.ChunkSizeX
		oz := (c.Z - minZ) * world.ChunkSizeZ
		for z := range world.ChunkSizeZ {
			for x := range world.ChunkSizeX {
				img.SetRGBA(ox+x, oz+z, ColumnColor(c, x, z, opts.Shade))
			}
		}
	}

	if scale := max(opts.Scale, 1); scale > 1 {
		scaled := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		img = scaled
	}
	if opts.Label != "" {
		drawLabel(img, opts.Label)
	}
	return img, nil
}

// RenderWorld renders the square of chunks within radius of (cx, cz),
// loading or generating them through the world.
func RenderWorld(w *world.World, cx, cz, radius int, opts Options) (*image.RGBA, error) {
	if radius < 0 {
		return nil, fmt.Errorf("worldmap: negative radius %d", radius)
	}
	chunks := make([]*world.Chunk, 0, (2*radius+1)*(2*radius+1))
	for z := cz - radius; z <= cz+radius; z++ {
		for x := cx - radius; x <= cx+radius; x++ {
			chunks = append(chunks, w.GetChunk(x, z))
		}
	}
	return Render(chunks, opts)
}

// ColumnColor returns the map color of column (x, z) of c. Empty columns
// are transparent.
func ColumnColor(c *world.Chunk, x, z int, shade bool) color.RGBA {
	y := c.SurfaceY(x, z)
	if y < 0 {
		return color.RGBA{}
	}
	col := c.GetBlock(x, y, z).BaseColor()
	f := float32(1)
	if shade {
		f = 0.5 + 0.5*float32(y)/float32(world.ChunkSizeY-1)
	}
	return color.RGBA{
		R: channel(col.X() * f),
		G: channel(col.Y() * f),
		B: channel(col.Z() * f),
		A: 0xff,
	}
}

func channel(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}

func drawLabel(img *image.RGBA, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(2, basicfont.Face7x13.Ascent+2),
	}
	d.DrawString(text)
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// SavePNG writes img to path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create map dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create map: %w", err)
	}
	if err := WritePNG(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode map: %w", err)
	}
	return f.Close()
}
