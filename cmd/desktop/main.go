// Command desktop runs a program in a window and animates its tape.
//
//	desktop [-O] [-policy wrap|strict|grow] [-rate n] prog.b
//
// Typed characters feed ",". Escape ends the input, Tab pauses, and the
// arrow keys change the number of steps per frame.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"gobf/pkg/grid"
	"gobf/pkg/machine"
	"gobf/pkg/program"
	"gobf/pkg/utils"
)

const (
	tapeCols    = 16
	tapeRows    = 8
	cellSize    = 40
	headerH     = 24
	outputLines = 14
	lineH       = 14
	screenW     = tapeCols * cellSize
	screenH     = headerH + tapeRows*cellSize + outputLines*lineH + 8
	maxRate     = 1 << 20
)

var (
	face        = text.NewGoXFace(basicfont.Face7x13)
	pointerEdge = color.RGBA{0xff, 0x40, 0x40, 0xff}
	labelColor  = color.RGBA{0x80, 0x80, 0xff, 0xff}
)

type Game struct {
	r *runner
}

func (g *Game) Update() error {
	for _, c := range ebiten.AppendInputChars(nil) {
		if c < 0x80 {
			g.r.input.Push(byte(c))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.r.input.Push('\n')
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.r.input.Close()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.r.paused.Store(!g.r.paused.Load())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.r.rate.Store(min(g.r.rate.Load()*2, maxRate))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.r.rate.Store(max(g.r.rate.Load()/2, 1))
	}
	g.r.Tick()
	return nil
}

func drawText(dst *ebiten.Image, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, face, op)
}

func fillRect(dst *ebiten.Image, x, y, w, h int, c color.Color) {
	dst.SubImage(image.Rect(x, y, x+w, y+h)).(*ebiten.Image).Fill(c)
}

func (g *Game) status(v view) string {
	state := "running"
	switch done, err := g.r.Done(); {
	case done && err != nil:
		state = "error: " + err.Error()
	case done:
		state = "halted"
	case g.r.paused.Load():
		state = "paused"
	case g.r.input.waiting.Load():
		state = "waiting for input"
	}
	return fmt.Sprintf("ptr %d  steps %d  rate %d/frame  %s", v.pointer, v.steps, g.r.rate.Load(), state)
}

func (g *Game) Draw(screen *ebiten.Image) {
	v := g.r.View()
	drawText(screen, g.status(v), 4, 4, labelColor)

	for i, val := range v.cells {
		x, y := grid.GetGridCoords(i, tapeCols)
		px, py := x*cellSize, headerH+y*cellSize
		if v.from+i == v.pointer {
			fillRect(screen, px, py, cellSize, cellSize, pointerEdge)
		}
		fillRect(screen, px+2, py+2, cellSize-4, cellSize-4, color.Gray{Y: val})
		fg := color.Color(color.White)
		if val > 0x80 {
			fg = color.Black
		}
		drawText(screen, fmt.Sprint(val), px+5, py+5, fg)
		drawText(screen, fmt.Sprint(v.from+i), px+5, py+22, labelColor)
	}

	top := headerH + tapeRows*cellSize + 4
	for i, line := range g.r.output.Tail(outputLines) {
		drawText(screen, line, 4, top+i*lineH, color.White)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	optimize := flag.Bool("O", false, "fold runs before running")
	policy := flag.String("policy", "wrap", "tape policy: wrap, strict or grow")
	rate := flag.Int64("rate", 1000, "steps per frame")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: desktop [flags] prog.b")
	}

	src, err := utils.ReadSource(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read source file: %v", err)
	}
	p, err := program.Compile(src)
	if err != nil {
		log.Fatalf("Compilation failed: %v", err)
	}
	if *optimize {
		p = p.Optimize()
	}
	tp, err := machine.ParsePolicy(*policy)
	if err != nil {
		log.Fatal(err)
	}

	r := newRunner(tapeCols*tapeRows, machine.WithPolicy(tp))
	r.rate.Store(max(*rate, 1))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx, p.Root())

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("gobf - " + flag.Arg(0))

	if err := ebiten.RunGame(&Game{r: r}); err != nil {
		log.Fatal(err)
	}
}
