// Package logrus adapts a logrus logger to the cache's Logger interface.
package logrus

import (
	lr "github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/storecore/cache"
)

type Logger struct{ L *lr.Logger }

var _ cache.Logger = Logger{}

func (l Logger) Debug(msg string, f cache.Fields) { l.L.WithFields(lr.Fields(f)).Debug(msg) }
func (l Logger) Info(msg string, f cache.Fields)  { l.L.WithFields(lr.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f cache.Fields)  { l.L.WithFields(lr.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f cache.Fields) { l.L.WithFields(lr.Fields(f)).Error(msg) }
