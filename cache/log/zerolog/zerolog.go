// Package zerolog adapts a zerolog logger to the cache's Logger interface.
package zerolog

import (
	zl "github.com/rs/zerolog"

	"github.com/unkn0wn-root/storecore/cache"
)

type Logger struct{ L zl.Logger }

var _ cache.Logger = Logger{}

func (z Logger) Debug(msg string, f cache.Fields) { fields(z.L.Debug(), f).Msg(msg) }
func (z Logger) Info(msg string, f cache.Fields)  { fields(z.L.Info(), f).Msg(msg) }
func (z Logger) Warn(msg string, f cache.Fields)  { fields(z.L.Warn(), f).Msg(msg) }
func (z Logger) Error(msg string, f cache.Fields) { fields(z.L.Error(), f).Msg(msg) }

func fields(e *zl.Event, f cache.Fields) *zl.Event {
	for k, v := range f {
		e = e.Interface(k, v)
	}
	return e
}
