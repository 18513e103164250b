package engine

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for engine events.
var (
	SignalCompileStart    = capitan.NewSignal("engine.compile.start", "Tree compilation beginning")
	SignalCompileComplete = capitan.NewSignal("engine.compile.complete", "Tree compilation finished")
	SignalDecodeStart     = capitan.NewSignal("engine.decode.start", "Decode operation beginning")
	SignalDecodeComplete  = capitan.NewSignal("engine.decode.complete", "Decode operation finished")
	SignalEncodeStart     = capitan.NewSignal("engine.encode.start", "Encode operation beginning")
	SignalEncodeComplete  = capitan.NewSignal("engine.encode.complete", "Encode operation finished")
)

// Keys for typed event data.
var (
	KeyFingerprint = capitan.NewStringKey("fingerprint")
	KeyShape       = capitan.NewStringKey("shape")
	KeyAtomCount   = capitan.NewIntKey("atom_count")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitCompileStart emits an event when compilation begins.
func emitCompileStart(ctx context.Context) {
	capitan.Emit(ctx, SignalCompileStart)
}

// emitCompileComplete emits an event when compilation finishes.
func emitCompileComplete(ctx context.Context, eng *Engine, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyDuration.Field(duration),
	}
	if eng != nil {
		fields = append(fields,
			KeyFingerprint.Field(eng.fingerprint.Short()),
			KeyShape.Field(eng.shape.String()),
			KeyAtomCount.Field(eng.atoms),
		)
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalCompileComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalCompileComplete, fields...)
	}
}

// emitDecodeStart emits an event when decode begins.
func emitDecodeStart(ctx context.Context, eng *Engine) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyFingerprint.Field(eng.fingerprint.Short()),
	)
}

// emitDecodeComplete emits an event when decode finishes.
func emitDecodeComplete(ctx context.Context, eng *Engine, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyFingerprint.Field(eng.fingerprint.Short()),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

// emitEncodeStart emits an event when encode begins.
func emitEncodeStart(ctx context.Context, eng *Engine) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyFingerprint.Field(eng.fingerprint.Short()),
	)
}

// emitEncodeComplete emits an event when encode finishes.
func emitEncodeComplete(ctx context.Context, eng *Engine, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyFingerprint.Field(eng.fingerprint.Short()),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}
