package render

import (
	"embed"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	lua "github.com/yuin/gopher-lua"

	"github.com/ilexum-group/hostfetch/internal/namespace"
	"github.com/ilexum-group/hostfetch/internal/utils"
)

// OutputGlobal is the Lua global every template appends its output to
const OutputGlobal = "__hostfetch__"

//go:embed templates/*.lua
var templates embed.FS

var errNoOutput = errors.New(OutputGlobal + " is not a string")

// builtin returns the embedded template for a stage
func builtin(name string) (string, error) {
	b, err := templates.ReadFile("templates/" + name + ".lua")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// newEnvironment creates a Lua state with the prelude and Go helpers loaded
func newEnvironment() (*lua.LState, error) {
	L := lua.NewState()

	prelude, err := builtin("prelude")
	if err != nil {
		L.Close()
		return nil, err
	}
	if err := L.DoString(prelude); err != nil {
		L.Close()
		return nil, fmt.Errorf("load prelude: %w", err)
	}

	L.SetGlobal("measure", L.NewFunction(luaMeasure))
	L.SetGlobal("width", L.NewFunction(luaWidth))
	L.SetGlobal("lines", L.NewFunction(luaLines))
	L.SetGlobal("humanBytes", L.NewFunction(luaHumanBytes))
	return L, nil
}

// evaluate resets the output global, runs code and returns what it wrote
func evaluate(L *lua.LState, stage Stage, source, code string) (string, error) {
	L.SetGlobal(OutputGlobal, lua.LString(""))
	if err := L.DoString(code); err != nil {
		return "", &EvaluationError{Stage: stage, Source: source, Err: err}
	}
	out, ok := L.GetGlobal(OutputGlobal).(lua.LString)
	if !ok {
		return "", &EvaluationError{Stage: stage, Source: source, Err: errNoOutput}
	}
	return string(out), nil
}

// set writes one Go value as a global, reporting failures as a BridgeError
func set(L *lua.LState, stage Stage, name string, value any) error {
	var lv lua.LValue
	switch v := value.(type) {
	case nil:
		lv = lua.LNil
	case string:
		lv = lua.LString(v)
	case bool:
		lv = lua.LBool(v)
	case int:
		lv = lua.LNumber(v)
	case *namespace.Table:
		t, err := namespace.LTable(L, v)
		if err != nil {
			return &BridgeError{Stage: stage, Name: name, Err: err}
		}
		lv = t
	default:
		return &BridgeError{Stage: stage, Name: name, Err: fmt.Errorf("unsupported value %T", value)}
	}
	L.SetGlobal(name, lv)
	return nil
}

func luaMeasure(L *lua.LState) int {
	w, h := utils.Dimensions(L.CheckString(1))
	L.Push(lua.LNumber(w))
	L.Push(lua.LNumber(h))
	return 2
}

func luaWidth(L *lua.LState) int {
	L.Push(lua.LNumber(utils.VisualWidth(L.CheckString(1))))
	return 1
}

// luaLines splits text into an array of lines, dropping the empty line after a final newline
func luaLines(L *lua.LState) int {
	text := strings.TrimSuffix(L.CheckString(1), "\n")
	t := L.NewTable()
	if text != "" {
		for _, line := range strings.Split(text, "\n") {
			t.Append(lua.LString(line))
		}
	}
	L.Push(t)
	return 1
}

func luaHumanBytes(L *lua.LState) int {
	n := float64(L.CheckNumber(1))
	if n < 0 || math.IsNaN(n) {
		L.ArgError(1, "byte count must be non-negative")
		return 0
	}
	L.Push(lua.LString(humanize.IBytes(uint64(n))))
	return 1
}
