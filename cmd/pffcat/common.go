package main

import (
	"fmt"
	"os"

	"github.com/vound-software/libpff-20120802-sub001/internal/diagnostics"
	"github.com/vound-software/libpff-20120802-sub001/pkg/pff"
)

// openFile wires the loaded config's cache sizes and recovery cap into
// pff.OpenPath, plus a stderr diagnostic sink when --verbose is set
// (spec.md §9 "Global mutable state → explicit sink"). When the header
// declares no ASCII codepage, the config default is recorded afterwards via
// SetASCIICodepage, which changes only what ASCIICodepage reports.
func openFile(path string) (*pff.File, error) {
	opts := []pff.Option{
		pff.WithCacheSizes(cfg.CacheSizes()),
		pff.WithRecoveryCap(cfg.RecoveryCap),
	}
	if verbose {
		opts = append(opts, pff.WithDiagnostics(diagnostics.FuncSink(func(e diagnostics.Event) {
			fmt.Fprintf(os.Stderr, "[%s] %s %v\n", e.Layer, e.Message, e.Fields)
		})))
	}
	f, err := pff.OpenPath(path, opts...)
	if err != nil {
		return nil, err
	}
	if f.ASCIICodepage() == 0 {
		f.SetASCIICodepage(cfg.DefaultASCIICodepage)
	}
	return f, nil
}
