package main

import (
	"github.com/benbjohnson/gcl/lower"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// loadFunc builds the package at path in SSA form and returns the named
// package-level function.
func loadFunc(path, name string) (*ssa.Function, error) {
	if name == "" {
		return nil, errors.New("function name required (-f)")
	}

	// Load the initial set of packages.
	initial, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax}, path)
	if err != nil {
		return nil, err
	} else if packages.PrintErrors(initial) > 0 {
		return nil, errors.New("packages contain errors")
	}

	// Build program in SSA form.
	prog, pkgs := ssautil.AllPackages(initial, ssa.BuilderMode(0))
	for i, pkg := range pkgs {
		if pkg == nil {
			return nil, errors.Errorf("cannot build SSA for package %s", initial[i])
		}
	}
	prog.Build()

	for _, pkg := range pkgs {
		if fn := pkg.Func(name); fn != nil {
			return fn, nil
		}
	}
	return nil, errors.Errorf("function %q not found in %s", name, path)
}

// lowerFunc loads and lowers the function named on the command line.
func (m *Main) lowerFunc(path string) (*lower.Result, error) {
	fn, err := loadFunc(path, m.FuncName)
	if err != nil {
		return nil, err
	}

	m.Logger.Debug("lowering", zap.String("func", fn.String()), zap.String("arch", m.Config.Arch))

	res, err := lower.Func(fn, lower.Options{Arch: m.Config.Arch, Logger: m.Logger})
	if err != nil {
		return nil, errors.Wrapf(err, "lower %s", fn)
	}
	return res, nil
}
