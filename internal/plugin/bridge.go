package plugin

import (
	"encoding/json"
	"fmt"

	"github.com/bytecodealliance/wasmtime-go/v3"
	"github.com/driftless-hq/driftless-sub001/internal/apierr"
	"github.com/driftless-hq/driftless-sub001/pkg/logging"
)

// bridge wraps one plugin's instantiated module and store, exposing the
// JSON-over-WASM calling convention spec.md §6 describes: every export
// takes zero or more (ptr i32, len i32) pairs, each pointing at a UTF-8
// string buffer (a name or a JSON blob), and returns an i64 packing the
// result buffer as (ptr<<32 | len). The guest must export "alloc" (size
// i32 -> ptr i32), "dealloc" (ptr i32, size i32), and "memory". The host
// imports a single "log" function under the module namespace "env" so a
// plugin can emit diagnostics through the agent's own logger instead of
// stdout, per spec.md §4.5's "plugins may not perform their own I/O".
type bridge struct {
	name     string
	instance *wasmtime.Instance
	store    *wasmtime.Store
	memory   *wasmtime.Memory
	alloc    *wasmtime.Func
	dealloc  *wasmtime.Func
}

// linkHostImports builds a Linker exposing the "env.log" host function used
// by every plugin instance.
func linkHostImports(engine *wasmtime.Engine, pluginName string) (*wasmtime.Linker, error) {
	linker := wasmtime.NewLinker(engine)
	err := linker.FuncWrap("env", "log", func(caller *wasmtime.Caller, ptr int32, length int32) {
		mem := caller.GetExport("memory")
		if mem == nil || mem.Memory() == nil {
			return
		}
		data := mem.Memory().UnsafeData(caller)
		if int(ptr) < 0 || int(ptr)+int(length) > len(data) {
			return
		}
		logging.Info("PluginHost."+pluginName, "%s", string(data[ptr:ptr+length]))
	})
	if err != nil {
		return nil, err
	}
	return linker, nil
}

func newBridge(name string, instance *wasmtime.Instance, store *wasmtime.Store) (*bridge, error) {
	memExport := instance.GetExport(store, "memory")
	if memExport == nil || memExport.Memory() == nil {
		return nil, apierr.Sandbox("plugin", name, "module does not export linear memory", nil)
	}
	allocExport := instance.GetExport(store, "alloc")
	deallocExport := instance.GetExport(store, "dealloc")
	if allocExport == nil || allocExport.Func() == nil || deallocExport == nil || deallocExport.Func() == nil {
		return nil, apierr.Sandbox("plugin", name, "module does not export alloc/dealloc", nil)
	}
	return &bridge{
		name:     name,
		instance: instance,
		store:    store,
		memory:   memExport.Memory(),
		alloc:    allocExport.Func(),
		dealloc:  deallocExport.Func(),
	}, nil
}

// writeBytes allocates guest memory for payload, writes it in, and returns
// the guest pointer and length.
func (b *bridge) writeBytes(payload []byte) (int32, int32, error) {
	raw, err := b.alloc.Call(b.store, int32(len(payload)))
	if err != nil {
		return 0, 0, apierr.Sandbox("plugin", b.name, "alloc call failed", err)
	}
	ptr, ok := raw.(int32)
	if !ok {
		return 0, 0, apierr.Sandbox("plugin", b.name, "alloc did not return i32", nil)
	}
	data := b.memory.UnsafeData(b.store)
	if int(ptr)+len(payload) > len(data) {
		return 0, 0, apierr.Sandbox("plugin", b.name, "alloc returned out-of-bounds pointer", nil)
	}
	copy(data[ptr:], payload)
	return ptr, int32(len(payload)), nil
}

// readResult unpacks a packed (ptr<<32|len) i64 into the raw guest bytes,
// copies them out, and frees the guest buffer via dealloc.
func (b *bridge) readResult(packed int64) ([]byte, error) {
	ptr := int32(packed >> 32)
	length := int32(packed & 0xffffffff)
	data := b.memory.UnsafeData(b.store)
	if int(ptr) < 0 || int(ptr)+int(length) > len(data) {
		return nil, apierr.Sandbox("plugin", b.name, "result pointer out of bounds", nil)
	}
	out := make([]byte, length)
	copy(out, data[ptr:ptr+length])
	if _, err := b.dealloc.Call(b.store, ptr, length); err != nil {
		return nil, apierr.Sandbox("plugin", b.name, "dealloc call failed", err)
	}
	return out, nil
}

// callJSON invokes the named export, passing argument (or none when arg is
// nil) as a JSON buffer and unmarshaling the JSON result into out. Used for
// the seven no-argument enumeration exports.
func (b *bridge) callJSON(export string, arg interface{}, out interface{}) error {
	if arg == nil {
		return b.invoke(export, nil, out)
	}
	payload, err := json.Marshal(arg)
	if err != nil {
		return apierr.Render("plugin", b.name, err)
	}
	return b.invoke(export, []string{string(payload)}, out)
}

// callMulti invokes the named export with args passed as successive
// (ptr, len) i32 pairs — the ABI spec.md §6 names directly for the dispatch
// exports, e.g. execute_task(name_ptr, name_len, cfg_ptr, cfg_len). The
// result is unmarshaled from the packed-i64 JSON return into out.
func (b *bridge) callMulti(export string, args []string, out interface{}) error {
	return b.invoke(export, args, out)
}

func (b *bridge) invoke(export string, args []string, out interface{}) error {
	fnExport := b.instance.GetExport(b.store, export)
	if fnExport == nil || fnExport.Func() == nil {
		return apierr.Dispatch("plugin", b.name, fmt.Errorf("export %q not found", export))
	}
	fn := fnExport.Func()

	callArgs := make([]interface{}, 0, len(args)*2)
	for _, a := range args {
		ptr, length, err := b.writeBytes([]byte(a))
		if err != nil {
			return err
		}
		callArgs = append(callArgs, ptr, length)
	}

	raw, err := fn.Call(b.store, callArgs...)
	if err != nil {
		return apierr.Sandbox("plugin", b.name, "call to "+export+" failed or exceeded fuel/epoch budget", err)
	}

	packed, ok := raw.(int64)
	if !ok {
		return apierr.Sandbox("plugin", b.name, "export "+export+" did not return a packed i64 result", nil)
	}
	payload, err := b.readResult(packed)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return apierr.Render("plugin", b.name, err)
	}
	return nil
}
