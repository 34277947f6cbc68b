package engine

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	wasmvm "github.com/wavmlabs/wasmvm-go"
)

// hostTrap carries a deliberate trap out of a host function. wazero
// converts the panic into a call error, which Execute reports as a
// trapped result.
type hostTrap struct {
	module string
	name   string
}

func (t hostTrap) Error() string {
	return fmt.Sprintf("host function %s.%s trapped", t.module, t.name)
}

// instantiateHosts builds and instantiates one host module per
// distinct import module name in hosts. Host module names live in the
// engine's namespace, so a name can back at most one instantiation at
// a time per engine.
func (e *Engine) instantiateHosts(ctx context.Context, hosts []wasmvm.HostFunction) ([]api.Module, error) {
	if len(hosts) == 0 {
		return nil, nil
	}

	grouped := make(map[string][]wasmvm.HostFunction)
	var order []string
	for _, h := range hosts {
		if h.Fn == nil {
			return nil, fmt.Errorf("host function %s.%s has no implementation", h.Module, h.Name)
		}
		if _, seen := grouped[h.Module]; !seen {
			order = append(order, h.Module)
		}
		grouped[h.Module] = append(grouped[h.Module], h)
	}

	var mods []api.Module
	for _, modName := range order {
		if e.runtime.Module(modName) != nil {
			closeAll(ctx, mods)
			return nil, fmt.Errorf("host module %q already registered", modName)
		}

		builder := e.runtime.NewHostModuleBuilder(modName)
		for _, h := range grouped[modName] {
			builder = builder.NewFunctionBuilder().
				WithGoModuleFunction(bridgeHostFunction(h), apiValueTypes(h.Type.Params), apiValueTypes(h.Type.Results)).
				Export(h.Name)
		}

		mod, err := builder.Instantiate(ctx)
		if err != nil {
			closeAll(ctx, mods)
			return nil, fmt.Errorf("instantiate host module %q: %w", modName, err)
		}
		mods = append(mods, mod)
	}

	return mods, nil
}

// bridgeHostFunction adapts a HostFunction to wazero's raw stack
// calling convention.
func bridgeHostFunction(h wasmvm.HostFunction) api.GoModuleFunc {
	paramCount := len(h.Type.Params)
	hasResult := len(h.Type.Results) > 0

	return func(ctx context.Context, _ api.Module, stack []uint64) {
		args := make([]wasmvm.Value, paramCount)
		for i := range args {
			args[i] = wasmvm.FromBits(stack[i])
		}

		res := h.Fn(ctx, args)
		if res.Trapped {
			Logger().Debug("host function trapped",
				zap.String("module", h.Module),
				zap.String("name", h.Name))
			panic(hostTrap{module: h.Module, name: h.Name})
		}

		if hasResult {
			if res.HasValue {
				stack[0] = res.Value.Bits()
			} else {
				stack[0] = 0
			}
		}
	}
}

func apiValueTypes(vts []wasmvm.ValueType) []api.ValueType {
	if len(vts) == 0 {
		return nil
	}
	out := make([]api.ValueType, len(vts))
	for i, vt := range vts {
		out[i] = api.ValueType(vt)
	}
	return out
}
