// Package main provides the entry point for the Cedar front end. It
// loads a source file, lexes the Cedar sections, parses them into a
// translation unit with metafunctions applied, and reports ordered
// diagnostics.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/cedar-lang/cedarfront/internal/ast"
	"github.com/cedar-lang/cedarfront/internal/diagnostic"
	"github.com/cedar-lang/cedarfront/internal/lexer"
	"github.com/cedar-lang/cedarfront/internal/parser"
	"github.com/cedar-lang/cedarfront/internal/reflect"
	"github.com/cedar-lang/cedarfront/internal/source"
)

var (
	version = "0.1.0-alpha"
	commit  = "dev"
)

type options struct {
	debugSources bool
	debugTokens  bool
	printTree    bool
}

func main() {
	var (
		showVersion  = flag.Bool("version", false, "show version information")
		showHelp     = flag.Bool("help", false, "show help information")
		debugSources = flag.Bool("debug-sources", false, "print the classified source lines")
		debugTokens  = flag.Bool("debug-tokens", false, "print the lexed token sections")
		printTree    = flag.Bool("print-tree", false, "print the parse tree")
		watch        = flag.Bool("watch", false, "recompile whenever the input file changes")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("cedarfront v%s (%s)\n", version, commit)
		fmt.Printf("Cedar language version %s\n", source.LanguageVersion)
		return
	}
	if *showHelp {
		showUsage()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file specified")
		showUsage()
		os.Exit(1)
	}

	opt := options{
		debugSources: *debugSources,
		debugTokens:  *debugTokens,
		printTree:    *printTree,
	}

	input := args[0]
	if *watch {
		if err := watchFile(input, opt); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if !compileFile(input, opt) {
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("cedarfront - the Cedar syntax front end")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("    cedarfront [OPTIONS] <INPUT_FILE>")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("    --version        Show version information")
	fmt.Println("    --help           Show this help message")
	fmt.Println("    --debug-sources  Print the classified source lines")
	fmt.Println("    --debug-tokens   Print the lexed token sections")
	fmt.Println("    --print-tree     Print the parse tree")
	fmt.Println("    --watch          Recompile whenever the input file changes")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("    cedarfront hello.cedar")
	fmt.Println("    cedarfront --print-tree hello.cedar")
}

// compileFile runs the front end over one file. Reports whether it
// completed without diagnostics.
func compileFile(path string, opt options) bool {
	errors := diagnostic.NewList()

	file := source.NewFile(errors)
	if !file.LoadFile(path) {
		errors.Print(os.Stderr, path)
		return false
	}
	if opt.debugSources {
		file.DebugPrint(os.Stdout)
	}
	if !file.HasCedar() && !file.HasLegacy() {
		fmt.Fprintf(os.Stderr, "%s: no source content found\n", path)
		return false
	}

	tokens := lexer.NewTokens(errors)
	tokens.Lex(file.Lines())
	if opt.debugTokens {
		tokens.DebugPrint(os.Stdout)
	}

	p := parser.New(errors)
	p.SetMetafunctionApplier(reflect.NewApplier(tokens.Generated()))
	for _, start := range tokens.SectionStarts() {
		p.Parse(tokens.Map()[start], tokens.Generated())
	}
	if opt.printTree {
		p.Visit(ast.NewPrinter(os.Stdout))
	}

	if errors.HasErrors() {
		errors.Print(os.Stderr, path)
		return false
	}
	return true
}

// watchFile recompiles path on every write until interrupted.
func watchFile(path string, opt options) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(path); err != nil {
		return err
	}

	compileFile(path, opt)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Fprintf(os.Stderr, "recompiling %s\n", path)
			compileFile(path, opt)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
