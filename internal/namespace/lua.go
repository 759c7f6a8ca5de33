package namespace

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Inject writes every top-level entry of t as a global of L. Keys that are not in t are left
// untouched, so an absent record stays nil in the template.
func Inject(L *lua.LState, t *Table) error {
	for _, key := range t.keys {
		lv, err := toLValue(L, t.values[key])
		if err != nil {
			return fmt.Errorf("global %q: %w", key, err)
		}
		L.SetGlobal(key, lv)
	}
	return nil
}

// LTable converts t to a new Lua table
func LTable(L *lua.LState, t *Table) (*lua.LTable, error) {
	tbl := L.NewTable()
	for _, key := range t.keys {
		lv, err := toLValue(L, t.values[key])
		if err != nil {
			return nil, fmt.Errorf("%q: %w", key, err)
		}
		tbl.RawSetString(key, lv)
	}
	return tbl, nil
}

func toLValue(L *lua.LState, value any) (lua.LValue, error) {
	switch v := value.(type) {
	case string:
		return lua.LString(v), nil
	case bool:
		return lua.LBool(v), nil
	case int64:
		return lua.LNumber(v), nil
	case float64:
		return lua.LNumber(v), nil
	case *Table:
		return LTable(L, v)
	case *List:
		arr := L.NewTable()
		for i, item := range v.items {
			lv, err := LTable(L, item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i+1, err)
			}
			arr.RawSetInt(i+1, lv)
		}
		arr.RawSetString("count", lua.LNumber(len(v.items)))
		return arr, nil
	}
	return nil, fmt.Errorf("%T: %w", value, ErrUnsupportedValue)
}
