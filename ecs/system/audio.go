package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/hideseek/ecs"
	"github.com/milk9111/hideseek/ecs/component"
	"github.com/milk9111/hideseek/logging"
)

// AudioSystem consumes sound requests. There is no mixer in the sandbox,
// so a sound is logged and counted.
type AudioSystem struct {
	played map[string]int
	logger *zap.Logger
}

func NewAudioSystem(logger *zap.Logger) *AudioSystem {
	logger = logging.OrNop(logger)
	return &AudioSystem{played: make(map[string]int), logger: logger}
}

func (a *AudioSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.SoundRequestComponent.Kind(), func(e ecs.Entity, req *component.SoundRequest) {
		a.played[req.Name]++
		a.logger.Debug("play sound", zap.String("sound", req.Name))
		w.Events().Push(ecs.Event{Type: ecs.EventSound, Data: req.Name})
		ecs.DestroyEntity(w, e)
	})
}

// Played reports how many times name has played.
func (a *AudioSystem) Played(name string) int {
	return a.played[name]
}
