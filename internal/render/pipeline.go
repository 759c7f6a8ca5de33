// Package render evaluates the art, info and layout templates against a frozen snapshot.
package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/internal/utils"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

// Projector builds the template namespace from a snapshot
type Projector interface {
	Project(s *models.Snapshot) (*namespace.Table, error)
}

// Options control template selection and the values injected alongside the namespace
type Options struct {
	// AsciiDistro forces the logo regardless of the detected distribution.
	AsciiDistro string
	// Logo makes the layout print only the art.
	Logo bool

	ArtPath    string
	InfoPath   string
	LayoutPath string

	// TerminalSize defaults to the size of stdout.
	TerminalSize func() (width, height int)
}

// Pipeline runs the three template stages in one Lua environment
type Pipeline struct {
	projector Projector
	opts      Options
}

// Output is the result of a run
type Output struct {
	Art    models.RenderedBlock
	Info   models.RenderedBlock
	Layout string
}

// New creates a pipeline
func New(p Projector, opts Options) *Pipeline {
	if opts.TerminalSize == nil {
		opts.TerminalSize = TerminalSize
	}
	return &Pipeline{projector: p, opts: opts}
}

// Run renders the snapshot and returns the final layout string
func (p *Pipeline) Run(s *models.Snapshot) (string, error) {
	out, err := p.Render(s)
	if err != nil {
		return "", err
	}
	return out.Layout, nil
}

// Render runs art, info and layout in order. Every stage sees the namespace and the blocks of the
// stages before it, and globals set by one template stay visible to the next.
func (p *Pipeline) Render(s *models.Snapshot) (*Output, error) {
	L, err := newEnvironment()
	if err != nil {
		return nil, &EvaluationError{Stage: StageArt, Source: "prelude", Err: err}
	}
	defer L.Close()

	if err := p.inject(L, StageArt, s); err != nil {
		return nil, err
	}

	var asciiDistro any
	if p.opts.AsciiDistro != "" {
		asciiDistro = p.opts.AsciiDistro
	}
	if err := setAll(L, StageArt, map[string]any{"logo": p.opts.Logo, "asciiDistro": asciiDistro}); err != nil {
		return nil, err
	}

	var out Output
	if out.Art, err = p.block(L, StageArt, p.opts.ArtPath); err != nil {
		return nil, err
	}
	if err := p.inject(L, StageInfo, s); err != nil {
		return nil, err
	}
	if err := setBlock(L, StageInfo, "art", out.Art); err != nil {
		return nil, err
	}

	if out.Info, err = p.block(L, StageInfo, p.opts.InfoPath); err != nil {
		return nil, err
	}
	if err := p.inject(L, StageLayout, s); err != nil {
		return nil, err
	}
	if err := setBlock(L, StageLayout, "art", out.Art); err != nil {
		return nil, err
	}
	if err := setBlock(L, StageLayout, "info", out.Info); err != nil {
		return nil, err
	}

	w, h := p.opts.TerminalSize()
	terminal := namespace.NewTable()
	if err := terminal.Set("width", w); err != nil {
		return nil, &BridgeError{Stage: StageLayout, Name: "terminal", Err: err}
	}
	if err := terminal.Set("height", h); err != nil {
		return nil, &BridgeError{Stage: StageLayout, Name: "terminal", Err: err}
	}
	if err := set(L, StageLayout, "terminal", terminal); err != nil {
		return nil, err
	}

	code, source, err := p.source(StageLayout, p.opts.LayoutPath)
	if err != nil {
		return nil, err
	}
	if out.Layout, err = evaluate(L, StageLayout, source, code); err != nil {
		return nil, err
	}
	return &out, nil
}

// inject projects the snapshot and writes the namespace into L before a stage runs. Projection
// is repeatable, so every stage sees the same namespace whatever earlier templates did with it.
func (p *Pipeline) inject(L *lua.LState, stage Stage, s *models.Snapshot) error {
	ns, err := p.projector.Project(s)
	if err != nil {
		return &BridgeError{Stage: stage, Name: "namespace", Err: err}
	}
	if err := namespace.Inject(L, ns); err != nil {
		return &BridgeError{Stage: stage, Name: "namespace", Err: err}
	}
	return nil
}

// block evaluates one stage and measures its output
func (p *Pipeline) block(L *lua.LState, stage Stage, override string) (models.RenderedBlock, error) {
	code, source, err := p.source(stage, override)
	if err != nil {
		return models.RenderedBlock{}, err
	}
	text, err := evaluate(L, stage, source, code)
	if err != nil {
		return models.RenderedBlock{}, err
	}
	w, h := utils.Dimensions(text)
	utils.LogDebug("template rendered", map[string]string{
		"stage":  string(stage),
		"source": source,
		"width":  fmt.Sprint(w),
		"height": fmt.Sprint(h),
	})
	return models.RenderedBlock{Text: text, Width: w, Height: h}, nil
}

// source returns the override file when it exists, else the built-in template
func (p *Pipeline) source(stage Stage, override string) (code, source string, err error) {
	if override != "" {
		b, err := os.ReadFile(override)
		switch {
		case err == nil:
			return string(b), override, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", override, &EvaluationError{Stage: stage, Source: override, Err: err}
		}
	}
	code, err = builtin(string(stage))
	if err != nil {
		return "", "builtin", &EvaluationError{Stage: stage, Source: "builtin", Err: err}
	}
	return code, "builtin", nil
}

func setBlock(L *lua.LState, stage Stage, name string, b models.RenderedBlock) error {
	return setAll(L, stage, map[string]any{
		name:            b.Text,
		name + "Width":  b.Width,
		name + "Height": b.Height,
	})
}

func setAll(L *lua.LState, stage Stage, values map[string]any) error {
	for name, v := range values {
		if err := set(L, stage, name, v); err != nil {
			return err
		}
	}
	return nil
}
