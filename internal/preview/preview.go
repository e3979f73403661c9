package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"worldpop/internal/biome"
	"worldpop/internal/kind"
	"worldpop/internal/world"
)

const groundCell = 4 // pixels per ground sample

// BiomeFunc classifies a world position.
type BiomeFunc func(x, z float64) biome.Biome

// ForManager classifies positions the same way the manager's population
// passes do.
func ForManager(m *world.Manager) BiomeFunc {
	fields, classifier := m.Fields(), m.Classifier()
	return func(x, z float64) biome.Biome {
		s := fields.Sample(x, z)
		return classifier.Classify(biome.Input{
			X:                  x,
			Z:                  z,
			Base:               s.Base,
			Temperature:        s.Temperature,
			Moisture:           s.Moisture,
			DistanceFromOrigin: biome.Distance(x, z),
		})
	}
}

var biomeColors = map[biome.Biome]string{
	biome.Ocean:     "#1f4e8c",
	biome.Beach:     "#e3d18f",
	biome.Grassland: "#7fb85a",
	biome.Forest:    "#3f7a3a",
	biome.Desert:    "#d9b36c",
	biome.Mountain:  "#8a8580",
	biome.Snow:      "#eef3f7",
}

// footprint is the disc radius drawn for each class, in world units.
var footprint = map[kind.Class]float64{
	kind.ClassTree:        1.5,
	kind.ClassResource:    1.0,
	kind.ClassDecoration:  0.8,
	kind.ClassGroundCover: 0.4,
}

// Render draws a top-down view of a populated chunk: biome-coloured ground,
// batch instances as single pixels and every object as a disc in its kind's
// preview colour.
func Render(ch *world.Chunk, chunkSize float64, biomeAt BiomeFunc, pixels int) (*image.NRGBA, error) {
	if ch == nil {
		return nil, fmt.Errorf("chunk is nil")
	}
	if pixels <= 0 || chunkSize <= 0 {
		return nil, fmt.Errorf("invalid preview size %d for chunk size %v", pixels, chunkSize)
	}
	img := image.NewNRGBA(image.Rect(0, 0, pixels, pixels))
	scale := float64(pixels) / chunkSize

	background := color.NRGBA{R: 10, G: 10, B: 18, A: 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	if biomeAt != nil {
		for py := 0; py < pixels; py += groundCell {
			for px := 0; px < pixels; px += groundCell {
				x := ch.Origin.X() + (float64(px)+groundCell/2)/scale
				z := ch.Origin.Z() + (float64(py)+groundCell/2)/scale
				col := resolveColor(biomeColors[biomeAt(x, z)])
				rect := image.Rect(px, py, px+groundCell, py+groundCell)
				draw.Draw(img, rect, &image.Uniform{col}, image.Point{}, draw.Src)
			}
		}
	}

	if batch := ch.Batch(); batch != nil {
		for i := 0; i < batch.Len(); i++ {
			pos := batch.InstancePosition(i)
			px, py := toPixel(pos.X()-ch.Origin.X(), pos.Z()-ch.Origin.Z(), scale)
			if !(image.Point{X: px, Y: py}).In(img.Bounds()) {
				continue
			}
			c := batch.Colors[i]
			img.SetNRGBA(px, py, color.NRGBA{
				R: uint8(math.Round(clamp(float64(c.X()), 0, 1) * 255)),
				G: uint8(math.Round(clamp(float64(c.Y()), 0, 1) * 255)),
				B: uint8(math.Round(clamp(float64(c.Z()), 0, 1) * 255)),
				A: 255,
			})
		}
	}

	for _, o := range ch.Objects() {
		info, _ := kind.Lookup(o.Kind)
		px, py := toPixel(o.Position.X()-ch.Origin.X(), o.Position.Z()-ch.Origin.Z(), scale)
		radius := int(math.Round(footprint[info.Class] * scale))
		if radius < 1 {
			radius = 1
		}
		fillPolygon(img, disc(px, py, radius), resolveColor(info.PreviewColor))
	}
	return img, nil
}

// SaveChunkPreview renders the chunk and writes chunk_<x>_<z>.png into
// outputDir, returning the written path.
func SaveChunkPreview(ch *world.Chunk, chunkSize float64, biomeAt BiomeFunc, pixels int, outputDir string) (string, error) {
	img, err := Render(ch, chunkSize, biomeAt, pixels)
	if err != nil {
		return "", err
	}
	if err := ensurePreviewDir(outputDir); err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, fmt.Sprintf("chunk_%d_%d.png", ch.Coord.X, ch.Coord.Z))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create preview: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}
	return path, nil
}

func toPixel(localX, localZ, scale float64) (int, int) {
	return int(math.Floor(localX * scale)), int(math.Floor(localZ * scale))
}

// disc approximates a circle with an octagon.
func disc(cx, cy, r int) []image.Point {
	pts := make([]image.Point, 0, 8)
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		pts = append(pts, image.Point{
			X: cx + int(math.Round(float64(r)*math.Cos(a))),
			Y: cy + int(math.Round(float64(r)*math.Sin(a))),
		})
	}
	return pts
}

func resolveColor(value string) color.NRGBA {
	if col, ok := parseHexColor(value); ok {
		return col
	}
	return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
}

func parseHexColor(value string) (color.NRGBA, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return color.NRGBA{}, false
	}
	trimmed = strings.TrimPrefix(trimmed, "#")
	if len(trimmed) != 6 {
		return color.NRGBA{}, false
	}
	var rgb [3]uint8
	for i := range rgb {
		v, err := strconv.ParseUint(trimmed[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, false
		}
		rgb[i] = uint8(v)
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, true
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func fillPolygon(img *image.NRGBA, pts []image.Point, col color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	bounds := img.Bounds()
	minY = max(minY, bounds.Min.Y)
	maxY = min(maxY, bounds.Max.Y-1)

	xs := make([]int, 0, len(pts))
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		for i := range pts {
			j := (i + 1) % len(pts)
			x1, y1 := pts[i].X, pts[i].Y
			x2, y2 := pts[j].X, pts[j].Y
			if y1 == y2 || y < min(y1, y2) || y >= max(y1, y2) {
				continue
			}
			xs = append(xs, x1+(y-y1)*(x2-x1)/(y2-y1))
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			xStart := max(xs[i], bounds.Min.X)
			xEnd := min(xs[i+1], bounds.Max.X-1)
			for x := xStart; x <= xEnd; x++ {
				img.SetNRGBA(x, y, col)
			}
		}
	}
}

func ensurePreviewDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("output directory is empty")
	}
	return os.MkdirAll(dir, 0o755)
}
