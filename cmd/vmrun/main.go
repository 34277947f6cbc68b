package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	wasmvm "github.com/wavmlabs/wasmvm-go"
	"github.com/wavmlabs/wasmvm-go/vm"
)

func main() {
	var (
		wasmFile     = flag.String("wasm", "", "Path to wasm module file")
		validateOnly = flag.Bool("validate", false, "Validate the module and exit")
		list         = flag.Bool("list", false, "List exported functions and exit")
		funcName     = flag.String("func", "", "Exported function to call")
		funcIndex    = flag.Int("index", -1, "Function index to call (unchecked)")
		argsStr      = flag.String("args", "", "Arguments (comma-separated, typed by the signature)")
		interactive  = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: vmrun -wasm <file.wasm> [-func name | -index n] [-args 1,2,...]")
		fmt.Fprintln(os.Stderr, "       vmrun -wasm <file.wasm> -validate")
		fmt.Fprintln(os.Stderr, "       vmrun -wasm <file.wasm> -list")
		fmt.Fprintln(os.Stderr, "       vmrun -wasm <file.wasm> -i  (interactive mode)")
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(*wasmFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*wasmFile, *funcName, *funcIndex, *argsStr, *validateOnly, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(wasmFile, funcName string, funcIndex int, argsStr string, validateOnly, listOnly bool) error {
	ctx := context.Background()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	rt, err := vm.New(ctx)
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	if validateOnly {
		if rt.Validate(ctx, data) {
			fmt.Printf("%s: valid module (%d bytes)\n", wasmFile, len(data))
			return nil
		}
		return fmt.Errorf("%s: invalid module", wasmFile)
	}

	module, err := rt.Parse(ctx, data)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	exports := module.Exports()
	fmt.Printf("Module: %s (%d bytes)\n", wasmFile, len(data))
	fmt.Printf("\nExported functions:\n")
	for _, exp := range exports {
		fmt.Printf("  [%d] %s\n", exp.Index, formatSignature(exp.Name, exp.Type))
	}

	if listOnly {
		return module.Close(ctx)
	}

	instance, err := module.Instantiate(ctx)
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}
	defer instance.Close(ctx)

	// Resolve what to call. An explicit index takes the unchecked
	// path; a name takes the checked one.
	if funcName == "" && funcIndex < 0 {
		if len(exports) == 1 {
			funcName = exports[0].Name
		} else {
			fmt.Printf("\nUse -func or -index to pick a function to call.\n")
			return nil
		}
	}

	if funcIndex >= 0 {
		idx := uint32(funcIndex)
		ft, ok := instance.FunctionType(idx)
		if !ok {
			return fmt.Errorf("function index %d is not callable", funcIndex)
		}
		args, err := parseArgs(argsStr, ft.Params)
		if err != nil {
			return err
		}
		fmt.Printf("\nCalling index %d...\n", funcIndex)
		printOutcome(instance.Execute(ctx, idx, args), ft)
		return nil
	}

	idx, ok := instance.FindExportedFunction(funcName)
	if !ok {
		return fmt.Errorf("no export named %q", funcName)
	}
	ft, _ := instance.FunctionType(idx)
	args, err := parseArgs(argsStr, ft.Params)
	if err != nil {
		return err
	}

	fmt.Printf("\nCalling %s...\n", formatSignature(funcName, ft))
	out, err := instance.Call(ctx, funcName, args...)
	if err != nil {
		return fmt.Errorf("call %s: %w", funcName, err)
	}
	printOutcome(out, ft)
	return nil
}

// parseArgs converts comma-separated text into values typed by the
// parameter list.
func parseArgs(argsStr string, params []wasmvm.ValueType) ([]wasmvm.Value, error) {
	var fields []string
	if argsStr != "" {
		fields = strings.Split(argsStr, ",")
	}
	if len(fields) != len(params) {
		return nil, fmt.Errorf("need %d argument(s), got %d", len(params), len(fields))
	}

	args := make([]wasmvm.Value, len(fields))
	for i, field := range fields {
		v, err := parseValue(strings.TrimSpace(field), params[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = v
	}
	return args, nil
}

func parseValue(s string, t wasmvm.ValueType) (wasmvm.Value, error) {
	switch t {
	case wasmvm.ValueTypeI32:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return wasmvm.Value{}, fmt.Errorf("parse %q as i32: %w", s, err)
		}
		return wasmvm.I32(int32(v)), nil
	case wasmvm.ValueTypeI64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return wasmvm.Value{}, fmt.Errorf("parse %q as i64: %w", s, err)
		}
		return wasmvm.I64(v), nil
	case wasmvm.ValueTypeF32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return wasmvm.Value{}, fmt.Errorf("parse %q as f32: %w", s, err)
		}
		return wasmvm.F32(float32(v)), nil
	case wasmvm.ValueTypeF64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return wasmvm.Value{}, fmt.Errorf("parse %q as f64: %w", s, err)
		}
		return wasmvm.F64(v), nil
	}
	return wasmvm.Value{}, fmt.Errorf("unsupported value type %#x", byte(t))
}

func printOutcome(out vm.ExecutionOutcome, ft wasmvm.FunctionType) {
	if out.Trapped() {
		fmt.Println("Result: trap")
		return
	}
	v, ok := out.Value()
	if !ok {
		fmt.Println("Result: void")
		return
	}
	if len(ft.Results) > 0 {
		fmt.Printf("Result: %v (%s)\n", v.Interpret(ft.Results[0]), ft.Results[0])
		return
	}
	fmt.Printf("Result: %s\n", out)
}

func formatSignature(name string, ft wasmvm.FunctionType) string {
	params := make([]string, len(ft.Params))
	for i, p := range ft.Params {
		params[i] = p.String()
	}
	sig := name + "(" + strings.Join(params, ", ") + ")"
	if len(ft.Results) > 0 {
		sig += " -> " + ft.Results[0].String()
	}
	return sig
}
