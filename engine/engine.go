package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/httpcodec"
	"github.com/wippyai/httpcodec/codec"
	"github.com/wippyai/httpcodec/errors"
)

// Compiler turns codec trees into engines and caches the result per tree.
type Compiler struct {
	cache sync.Map // *codec.Codec -> *Engine
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile validates the tree, runs the indexing pass, and returns an
// engine driving it. Results are cached by tree identity: compiling the
// same *codec.Codec again returns the same engine. Two goroutines racing
// on an uncached tree may both compile; one result wins the cache and
// both are equivalent.
func (c *Compiler) Compile(root *codec.Codec) (*Engine, error) {
	if root == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindConstruction).
			Detail("nil codec tree").
			Build()
	}
	if cached, ok := c.cache.Load(root); ok {
		return cached.(*Engine), nil
	}

	eng, err := compile(root)
	if err != nil {
		return nil, err
	}

	actual, _ := c.cache.LoadOrStore(root, eng)
	return actual.(*Engine), nil
}

// Engine drives one compiled codec tree. It is immutable and safe for
// concurrent use.
type Engine struct {
	root        *codec.Codec // tree as handed to Compile
	indexed     *codec.Codec // copy with atom occurrences assigned
	shape       codec.Shape
	fingerprint codec.Hash
	atoms       int
}

func compile(root *codec.Codec) (*Engine, error) {
	ctx := context.Background()
	emitCompileStart(ctx)
	start := time.Now()

	bodies := 0
	if err := validate(root, &bodies); err != nil {
		Logger().Warn("codec tree rejected", zap.Error(err))
		emitCompileComplete(ctx, nil, time.Since(start), err)
		return nil, err
	}

	eng := &Engine{
		root:        root,
		indexed:     codec.Index(root),
		shape:       root.Shape,
		fingerprint: codec.Fingerprint(root),
		atoms:       len(codec.Atoms(root)),
	}
	Logger().Debug("codec tree compiled",
		zap.String("fingerprint", eng.fingerprint.Short()),
		zap.Int("atoms", eng.atoms),
		zap.String("shape", eng.shape.String()))
	emitCompileComplete(ctx, eng, time.Since(start), nil)
	return eng, nil
}

// validate rejects trees the engine cannot drive: unknown node or atom
// kinds from hand-built nodes, missing payloads, and more than one body
// atom per message.
func validate(c *codec.Codec, bodies *int) error {
	switch c.Kind {
	case codec.KindEmpty:
		return nil
	case codec.KindAtom:
		return validateAtom(c.Atom, bodies)
	case codec.KindOptional, codec.KindDoc:
		if c.Inner == nil {
			return constructionErr("%s node without inner codec", c.Kind)
		}
		return validate(c.Inner, bodies)
	case codec.KindTransform:
		if c.Inner == nil {
			return constructionErr("transform node without inner codec")
		}
		if c.Forward == nil || c.Backward == nil {
			return constructionErr("transform node without forward and backward functions")
		}
		return validate(c.Inner, bodies)
	case codec.KindCombine:
		if c.Left == nil || c.Right == nil {
			return constructionErr("combine node without two children")
		}
		if err := validate(c.Left, bodies); err != nil {
			return err
		}
		return validate(c.Right, bodies)
	default:
		return errors.Unsupported(errors.PhaseCompile, "node kind "+c.Kind.String())
	}
}

func validateAtom(a *codec.Atom, bodies *int) error {
	if a == nil {
		return constructionErr("atom node without atom")
	}
	switch a.Kind {
	case codec.AtomStatus, codec.AtomRoute, codec.AtomMethod:
		if a.Text == nil {
			return constructionErr("%s atom without text codec", a.Kind)
		}
	case codec.AtomQuery, codec.AtomHeader:
		if a.Name == "" {
			return constructionErr("%s atom without a name", a.Kind)
		}
		if a.Text == nil {
			return constructionErr("%s atom without text codec", a.Kind)
		}
	case codec.AtomBody, codec.AtomBodyStream:
		if a.Schema == nil {
			return constructionErr("%s atom without schema", a.Kind)
		}
		*bodies++
		if *bodies > 1 {
			return constructionErr("a message carries one body; tree binds %d body atoms", *bodies)
		}
	default:
		return errors.Unsupported(errors.PhaseCompile, "atom kind "+a.Kind.String())
	}
	return nil
}

func constructionErr(detail string, args ...any) error {
	return errors.New(errors.PhaseCompile, errors.KindConstruction).
		Detail(detail, args...).
		Build()
}

// Fingerprint returns the structural hash of the compiled tree.
func (e *Engine) Fingerprint() codec.Hash {
	return e.fingerprint
}

// Shape returns the value shape the tree decodes to.
func (e *Engine) Shape() codec.Shape {
	return e.shape
}

// Tree returns the indexed tree the engine drives, for printing and
// documentation. Callers must not mutate it.
func (e *Engine) Tree() *codec.Codec {
	return e.indexed
}

var defaultCompiler = NewCompiler()

// Compile compiles the tree on the package-level compiler.
func Compile(root *codec.Codec) (*Engine, error) {
	return defaultCompiler.Compile(root)
}

// Decode compiles the tree on the package-level compiler and decodes the
// message parts with it.
func Decode(ctx context.Context, root *codec.Codec, parts *httpcodec.Parts) (any, error) {
	eng, err := Compile(root)
	if err != nil {
		return nil, err
	}
	return eng.Decode(ctx, parts)
}

// Encode compiles the tree on the package-level compiler and encodes the
// value with it.
func Encode(ctx context.Context, root *codec.Codec, value any) (*httpcodec.Parts, error) {
	eng, err := Compile(root)
	if err != nil {
		return nil, err
	}
	return eng.Encode(ctx, value)
}
