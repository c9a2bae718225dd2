// Package lua implements script.Bridge on a sandboxed gopher-lua runtime
// that drives an in-memory scene.
//
// The runtime stands in for the creative host: scripts produced by
// script.Encode call functions of the global "host" module, which read and
// mutate a Scene (frame, layers, selection, undo groups). It backs the
// command line tool and the terminal harness, and lets tests observe the
// exact effect of every request.
//
// # State
//
// State owns the Lua runtime. Only the base, table, string and math
// libraries are opened; dofile, loadfile, load and loadstring are removed and
// require only resolves built-in safe modules and "host".
//
//	scene, err := lua.LoadScene(data)
//	if err != nil {
//	    return err
//	}
//	host, err := lua.NewHost(scene)
//	if err != nil {
//	    return err
//	}
//	defer host.Close()
//
//	out, err := host.Execute(ctx, `return host.read_geometry()`)
package lua
