package icon

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// LuaTimeout bounds the execution time of a pack script.
const LuaTimeout = 2 * time.Second

// parseLua runs a pack script in a sandboxed state. The script sees two
// functions:
//
//	pack("emoji")          -- optional pack name
//	icon("home", "🏠")     -- register an icon
//
// Only the base, table and string libraries are opened; file loading
// functions are removed.
func parseLua(source string, data []byte) (*Pack, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	ctx, cancel := context.WithTimeout(context.Background(), LuaTimeout)
	defer cancel()
	L.SetContext(ctx)

	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return nil, fmt.Errorf("opening lua library %s: %w", lib.name, err)
		}
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	p := &Pack{Icons: make(map[string]string)}
	L.SetGlobal("pack", L.NewFunction(func(L *lua.LState) int {
		p.Name = L.CheckString(1)
		return 0
	}))
	L.SetGlobal("icon", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		glyph := L.CheckString(2)
		if !ValidID(id) {
			L.ArgError(1, fmt.Sprintf("invalid icon id %q", id))
			return 0
		}
		p.Icons[id] = glyph
		return 0
	}))

	if err := L.DoString(string(data)); err != nil {
		return nil, fmt.Errorf("running %s: %w", source, err)
	}
	return p, nil
}
