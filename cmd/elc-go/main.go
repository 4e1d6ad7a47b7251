package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"elc-go/packages/compiler/src/compiler"
	"elc-go/packages/compiler/src/sass"
)

func usage() {
	fmt.Println(`elc-go - single-file component compiler
Usage: elc-go <command> [args]

Commands:
  compile [-o dir] <path>...   Compile component documents to vanilla JS and CSS
  help                         Show help`)
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "help":
		usage()
	case "compile":
		if err := compile(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "compile error: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func compile(args []string) error {
	outDir := "dist"
	paths := []string{}
	for i := 0; i < len(args); i++ {
		if args[i] == "-o" && i+1 < len(args) {
			outDir = args[i+1]
			i++
			continue
		}
		paths = append(paths, args[i])
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files")
	}

	files, err := discover(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Println("No component documents found")
		return nil
	}

	docs := make([]compiler.SourceDocument, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		docs = append(docs, compiler.SourceDocument{Path: file, Content: string(data)})
	}

	processor := sass.NewSasscProcessor()
	if !processor.Available() {
		log.Println("sassc not found; emitting unprocessed CSS")
	}

	log.Printf("Compiling %d component(s)...", len(docs))
	session := compiler.NewBuildSession(compiler.WithProcessor(processor))
	results := session.Build(context.Background(), docs)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	failures := 0
	for _, result := range results {
		if result.Err != nil {
			failures++
			log.Printf("  %s: %v", result.Path, result.Err)
			continue
		}
		base := outputBase(result.Path)
		jsPath := filepath.Join(outDir, base+".js")
		if err := os.WriteFile(jsPath, []byte(result.Component.JSCode+"\n"), 0o644); err != nil {
			return err
		}
		if result.Component.CSSCode != "" {
			cssPath := filepath.Join(outDir, base+".css")
			if err := os.WriteFile(cssPath, []byte(result.Component.CSSCode+"\n"), 0o644); err != nil {
				return err
			}
		}
		log.Printf("  %s -> %s", result.Path, jsPath)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d component(s) failed", failures, len(results))
	}
	return nil
}

// discover expands directory arguments into the *.component.html files they
// contain; plain file arguments are taken as-is.
func discover(paths []string) ([]string, error) {
	files := []string{}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".component.html") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func outputBase(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, ".component")
}
