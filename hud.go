package scrub

// Gauge is an integer level with a maximum. Observers subscribe through
// OnChange; every mutation that changes either number notifies them.
type Gauge struct {
	level, max int
	onChange   []func(level, max int)
}

func (g *Gauge) Level() int { return g.level }
func (g *Gauge) Max() int   { return g.max }

func (g *Gauge) OnChange(fn func(level, max int)) {
	g.onChange = append(g.onChange, fn)
}

func (g *Gauge) set(level, limit int) {
	level = min(max(level, 0), limit)
	if level == g.level && limit == g.max {
		return
	}
	g.level, g.max = level, limit
	for _, fn := range g.onChange {
		fn(level, limit)
	}
}

// WaterTank is the cleaning resource.
type WaterTank struct {
	Gauge
	onEmpty []func()
}

func NewWaterTank(capacity int) *WaterTank {
	return &WaterTank{Gauge: Gauge{level: capacity, max: capacity}}
}

func (w *WaterTank) Empty() bool { return w.level == 0 }
func (w *WaterTank) Full() bool  { return w.level >= w.max }

// OnEmpty subscribes to the "tried to work with an empty tank" signal.
func (w *WaterTank) OnEmpty(fn func()) {
	w.onEmpty = append(w.onEmpty, fn)
}

// Use takes n units if that many are left.
func (w *WaterTank) Use(n int) bool {
	if w.level < n {
		return false
	}
	w.set(w.level-n, w.max)
	return true
}

func (w *WaterTank) Add(n int) { w.set(w.level+n, w.max) }

func (w *WaterTank) Refill() { w.set(w.max, w.max) }

// Grow raises the capacity and fills the tank.
func (w *WaterTank) Grow(n int) { w.set(w.max+n, w.max+n) }

func (w *WaterTank) NotifyEmpty() {
	for _, fn := range w.onEmpty {
		fn()
	}
}

// CleanProgress counts cleaned dirt against the level's target.
type CleanProgress struct {
	Gauge
}

func NewCleanProgress(target int) *CleanProgress {
	return &CleanProgress{Gauge: Gauge{max: target}}
}

func (p *CleanProgress) Add(n int) { p.set(p.level+n, p.max) }

// SetTarget changes how much has to be cleaned, keeping what was done.
func (p *CleanProgress) SetTarget(n int) { p.set(p.level, max(n, 0)) }

func (p *CleanProgress) Done() bool { return p.max > 0 && p.level >= p.max }

func (p *CleanProgress) Fraction() float32 {
	if p.max == 0 {
		return 0
	}
	return float32(p.level) / float32(p.max)
}

// HUD is what the front-end draws over the game view.
type HUD struct {
	Water    *WaterTank
	Progress *CleanProgress
	// Flash counts down while the empty-tank warning shows.
	Flash   float32
	Message string
}

func NewHUD(capacity, target int, flash float32) *HUD {
	h := &HUD{
		Water:    NewWaterTank(capacity),
		Progress: NewCleanProgress(target),
	}
	h.Water.OnEmpty(func() { h.Flash = flash })
	return h
}

func (h *HUD) Update(dt float32) {
	h.Flash = max(h.Flash-dt, 0)
}
