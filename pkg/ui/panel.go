package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	labelHeight   = 15.0
	margin        = 10.0
)

// Widget is anything the panel can lay out.
type Widget interface {
	Update(p Pointer) bool
	Draw(screen *ebiten.Image)
}

type entry struct {
	label  string
	widget Widget
	height float64
	place  func(y float64) // Moves the widget to its scrolled position
}

type section struct {
	title   string
	entries []entry
}

// Panel is a scrollable column of sections holding widgets.
type Panel struct {
	X, Y          float64
	Width, Height float64
	Title         string
	ScrollOffset  float64
	Hidden        bool

	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []section
}

// NewPanel creates a new UI panel
func NewPanel(x, y, width, height float64, title string) *Panel {
	return &Panel{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Title:       title,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new section; following widgets belong to it.
func (p *Panel) AddSection(title string) {
	p.sections = append(p.sections, section{title: title})
}

func (p *Panel) add(e entry) {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	last := &p.sections[len(p.sections)-1]
	last.entries = append(last.entries, e)
	p.layout()
}

// AddSlider adds a slider widget to the panel
func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+margin, 0, p.Width-2*margin, label, min, max, value)
	p.add(entry{label: label, widget: s, height: s.H + 25, place: func(y float64) { s.Y = y }})
	return s
}

// AddCheckbox adds a checkbox widget to the panel
func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+margin, 0, label, value)
	p.add(entry{label: label, widget: c, height: c.Size + 20, place: func(y float64) { c.Y = y }})
	return c
}

// AddButton adds a full width button. Its label is drawn on the button itself.
func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+margin, 0, p.Width-2*margin, 24, label, onClick)
	p.add(entry{widget: b, height: b.Height + 10, place: func(y float64) { b.Y = y - labelHeight }})
	return b
}

// ContentHeight is the height of everything in the panel, scrolled or not.
func (p *Panel) ContentHeight() float64 {
	h := titleHeight
	for _, s := range p.sections {
		h += sectionHeight
		for _, e := range s.entries {
			h += e.height
		}
	}
	return h
}

// Scroll moves the content by dy wheel notches, clamped to the content.
func (p *Panel) Scroll(dy float64) {
	if dy == 0 {
		return
	}
	maxScroll := max(p.ContentHeight()-p.Height+40, 0)
	p.ScrollOffset = min(max(p.ScrollOffset-dy*20, 0), maxScroll)
	p.layout()
}

// layout places every widget at its scrolled position.
func (p *Panel) layout() {
	y := p.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		y += sectionHeight
		for _, e := range s.entries {
			e.place(y + labelHeight)
			y += e.height
		}
	}
}

func (p *Panel) visible(y float64) bool {
	return y >= p.Y && y <= p.Y+p.Height-labelHeight
}

// Update feeds the pointer to every visible widget and reports whether any of them changed.
// Scrolling uses the ebiten wheel; UpdateWith takes it explicitly.
func (p *Panel) Update() bool {
	_, dy := ebiten.Wheel()
	return p.UpdateWith(ReadPointer(), dy)
}

// UpdateWith is Update with explicit input.
func (p *Panel) UpdateWith(ptr Pointer, wheel float64) bool {
	if p.Hidden {
		return false
	}
	if ptr.In(p.X, p.Y, p.Width, p.Height) {
		p.Scroll(wheel)
	}
	changed := false
	y := p.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		y += sectionHeight
		for _, e := range s.entries {
			if p.visible(y) && e.widget.Update(ptr) {
				changed = true
			}
			y += e.height
		}
	}
	return changed
}

// Draw renders the panel and all widgets
func (p *Panel) Draw(screen *ebiten.Image) {
	if p.Hidden {
		return
	}
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+margin), int(p.Y+5))

	y := p.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		if p.visible(y) && s.title != "" {
			vector.FillRect(screen,
				float32(p.X+5), float32(y),
				float32(p.Width-10), 20,
				color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, s.title, int(p.X+margin), int(y+3))
		}
		y += sectionHeight
		for _, e := range s.entries {
			if p.visible(y) {
				if e.label != "" {
					ebitenutil.DebugPrintAt(screen, e.label, int(p.X+margin), int(y))
				}
				e.widget.Draw(screen)
			}
			y += e.height
		}
	}
}
