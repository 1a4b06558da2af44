package main

import (
	"log/slog"
	"math"

	"github.com/ripple-dev/ripple/pkg/flow"
	"github.com/ripple-dev/ripple/pkg/ripple"
)

// demoWorkload is a small game-loop-shaped state graph that gives the
// inspector something to show: a frame counter, a few moving sprites, a
// derived score, and keyed per-sprite mounts.
type demoWorkload struct {
	scope   *ripple.Scope
	frame   *ripple.Signal[int]
	sprites *ripple.Signal[[]sprite]
}

type sprite struct {
	ID int
	X  float64
	Y  float64
}

func newDemoWorkload(logger *slog.Logger) *demoWorkload {
	w := &demoWorkload{}

	_, w.scope = ripple.CreateScope(func() struct{} {
		w.frame = ripple.NewSignal(0, ripple.WithName("frame"))
		w.sprites = ripple.NewSignal([]sprite{}, ripple.WithName("sprites"))

		visible := ripple.NewMemo(func() int {
			count := 0
			for _, s := range w.sprites.Get() {
				if s.Y >= 0 {
					count++
				}
			}
			return count
		}, ripple.WithName("visible"))

		score := ripple.NewMemo(func() int {
			return w.frame.Get()/10 + visible.Get()*5
		}, ripple.WithName("score"))

		ripple.CreateEffect(func() ripple.Cleanup {
			logger.Debug("score changed", "score", score.Get())
			return nil
		}, ripple.WithName("score-logger"))

		flow.ForEach(w.sprites, func(s sprite) int { return s.ID }, func(s sprite) {
			ripple.CreateEffect(func() ripple.Cleanup {
				// Track the shared frame so each mounted sprite has a
				// live dependency for the inspector to draw.
				_ = w.frame.Get()
				return nil
			}, ripple.WithName("sprite-tracker"))
		})

		return struct{}{}
	}, ripple.ScopeName("demo"))

	return w
}

// tick advances the simulation one frame. All writes are batched so the
// dependent effects run once per tick.
func (w *demoWorkload) tick() {
	ripple.Batch(func() {
		f := w.frame.Peek() + 1
		w.frame.Set(f)

		// Sprites orbit and occasionally despawn/respawn so the keyed
		// reconciler has churn to reconcile.
		next := make([]sprite, 0, 4)
		for id := 0; id < 4; id++ {
			if (f/40+id)%5 == 4 {
				continue
			}
			angle := float64(f)/20 + float64(id)*math.Pi/2
			next = append(next, sprite{
				ID: id,
				X:  math.Cos(angle) * 100,
				Y:  math.Sin(angle) * 100,
			})
		}
		w.sprites.Set(next)
	})
}

func (w *demoWorkload) dispose() {
	w.scope.Dispose()
}
