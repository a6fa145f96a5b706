// Copyright (c) 2026 Tushar Sadhwani.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/peterh/liner"

	"github.com/tusharsadhwani/zlox"
	"github.com/tusharsadhwani/zlox/token"
)

const (
	title        = "zlox"
	promptPrefix = ">>> "
)

var debugEnabled bool

// Sentinel error for repl.
var errExit = fmt.Errorf("exit")

type repl struct {
	ctx       *zlox.GlobalContext
	globals   *zlox.HashTable
	out       io.Writer
	commands  map[string]func(string) error
	lastChunk *zlox.Chunk
}

func newREPL(stdout io.Writer) *repl {
	if stdout == nil {
		stdout = os.Stdout
	}
	ctx := zlox.NewGlobalContext()
	ctx.Debug = debugEnabled

	r := &repl{
		ctx:     ctx,
		globals: zlox.NewHashTable(),
		out:     stdout,
	}
	r.commands = map[string]func(string) error{
		".commands": r.cmdCommands,
		".bytecode": r.cmdBytecode,
		".globals":  r.cmdGlobals,
		".exit":     func(string) error { return errExit },
	}
	return r
}

func (r *repl) cmdCommands(_ string) error {
	for _, cmd := range []string{".commands", ".bytecode", ".globals", ".exit"} {
		_, _ = fmt.Fprintln(r.out, cmd)
	}
	return nil
}

func (r *repl) cmdBytecode(_ string) error {
	if r.lastChunk != nil {
		r.lastChunk.Fprint(r.out)
	}
	return nil
}

func (r *repl) cmdGlobals(_ string) error {
	for _, key := range r.globals.Keys() {
		value, _ := r.globals.Find(key)
		_, _ = fmt.Fprintf(r.out, "%s = %s\n", key, value.String())
	}
	return nil
}

func (r *repl) execute(line string) error {
	if line == "" {
		return nil
	}
	if line[0] == '.' {
		cmd := strings.Fields(line)[0]
		if fn, ok := r.commands[cmd]; ok {
			return fn(line)
		}
	}

	// Each input compiles to a fresh chunk; the context and the globals
	// table persist, so interning and global variables span inputs. Chunks
	// are kept referenced by lastChunk only for the .bytecode command.
	src := []byte(line)
	chunk, err := zlox.Compile(r.ctx, src)
	if err != nil {
		_, _ = fmt.Fprintf(r.out, "!   %+v\n", err)
		return nil
	}
	r.lastChunk = chunk

	vm := zlox.NewVM(r.ctx, chunk).
		SetOutput(r.out).
		SetGlobals(r.globals)
	if debugEnabled {
		chunk.Fprint(os.Stderr)
		vm.SetTrace(os.Stderr)
	}
	if err := vm.Run(); err != nil {
		_, _ = fmt.Fprintf(r.out, "!   %+v\n", err)
	}
	return nil
}

func (r *repl) complete(line string) (completions []string) {
	for _, kw := range token.Keywords() {
		if strings.HasPrefix(kw, line) {
			completions = append(completions, kw)
		}
	}
	for _, key := range r.globals.Keys() {
		if strings.HasPrefix(string(key), line) {
			completions = append(completions, string(key))
		}
	}
	return
}

func (r *repl) printInfo() {
	_, _ = fmt.Fprintln(r.out, title,
		"Build:", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	_, _ = fmt.Fprintln(r.out, "Write .commands to list available commands")
	_, _ = fmt.Fprintln(r.out, "Press Ctrl+D or write .exit command to exit")
	_, _ = fmt.Fprintln(r.out)
}

func (r *repl) run() error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetMultiLineMode(true)
	line.SetCompleter(r.complete)
	r.printInfo()

	for {
		str, err := line.Prompt(promptPrefix)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return &zlox.Error{Message: "prompt error", Cause: err}
		}
		if err := r.execute(str); err != nil {
			if err == errExit {
				return nil
			}
			return err
		}
		if v := strings.TrimSpace(str); len(v) > 0 {
			line.AppendHistory(v)
		}
	}
}

func parseFlags(
	flagset *flag.FlagSet,
	args []string,
) (filePath string, replMode bool, err error) {

	flagset.BoolVar(&debugEnabled, "debug", false,
		"Print token and bytecode traces to stderr")
	flagset.BoolVar(&replMode, "repl", false,
		"Start an interactive session")

	flagset.Usage = func() {
		_, _ = fmt.Fprint(flagset.Output(),
			"Usage: zlox <filename.lox>\n\n",
			"Use - to read from stdin, --repl for an interactive session\n\n",
			"Flags:\n",
		)
		flagset.PrintDefaults()
	}

	if err = flagset.Parse(args); err != nil {
		return
	}
	if flagset.NArg() != 1 {
		return
	}

	filePath = flagset.Arg(0)
	if filePath == "-" {
		return
	}
	_, err = os.Stat(filePath)
	return
}

func runScript(script []byte, stdout, stderr io.Writer) error {
	ctx := zlox.NewGlobalContext()
	ctx.Debug = debugEnabled

	tokens, err := zlox.NewScanner(script).ScanTokens()
	if err != nil {
		return err
	}
	if debugEnabled {
		zlox.FprintTokens(stderr, script, tokens)
	}

	chunk, err := zlox.NewCompiler(ctx, script, tokens).Compile()
	if err != nil {
		return err
	}
	if debugEnabled {
		chunk.Fprint(stderr)
	}

	vm := zlox.NewVM(ctx, chunk).SetOutput(stdout)
	if debugEnabled {
		vm.SetTrace(stderr)
	}
	return vm.Run()
}

func main() {
	filePath, replMode, err := parseFlags(flag.CommandLine, os.Args[1:])
	checkErr(err)

	if replMode {
		checkErr(newREPL(os.Stdout).run())
		return
	}

	if filePath == "" {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: zlox <filename.lox>")
		os.Exit(1)
	}

	var script []byte
	if filePath == "-" {
		script, err = io.ReadAll(os.Stdin)
	} else {
		script, err = os.ReadFile(filePath)
	}
	checkErr(err)

	checkErr(runScript(script, os.Stdout, os.Stderr))
}

func checkErr(err error) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
	os.Exit(1)
}
