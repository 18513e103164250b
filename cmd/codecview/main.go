package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/wippyai/httpcodec/codec"
	"github.com/wippyai/httpcodec/engine"
	"github.com/wippyai/httpcodec/schema"
	"github.com/wippyai/httpcodec/text"
)

// galleryEntry is one built-in codec tree the viewer ships with.
type galleryEntry struct {
	name string
	tree *codec.Codec
}

// task is the payload type behind the gallery's body trees.
type task struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

func gallery() []galleryEntry {
	return []galleryEntry{
		{
			name: "get-user",
			tree: codec.MethodConstant(http.MethodGet).
				And(codec.Literal("users")).
				And(codec.WithDoc(codec.Route(text.Int()), "numeric user id")).
				And(codec.Optional(codec.WithDoc(codec.Query("verbose", text.Bool()), "include profile details"))),
		},
		{
			name: "list-tasks",
			tree: codec.MethodConstant(http.MethodGet).
				And(codec.Literal("tasks")).
				And(codec.Optional(codec.Query("page", text.Int()))).
				And(codec.Optional(codec.Query("limit", text.Int()))).
				And(codec.WithDoc(codec.Header("X-Tenant", text.String()), "tenant the listing is scoped to")),
		},
		{
			name: "create-task",
			tree: codec.MethodConstant(http.MethodPost).
				And(codec.Literal("tasks")).
				And(codec.WithDoc(codec.Body(schema.JSON[task]()), "the task to create")),
		},
		{
			name: "task-created",
			tree: codec.StatusConstant(http.StatusCreated).
				And(codec.WithDoc(codec.Header("Location", text.String()), "URL of the created task")),
		},
		{
			name: "repeated-headers",
			tree: codec.Header("X-Hop", text.String()).
				And(codec.Header("X-Hop", text.String())),
		},
	}
}

func main() {
	var (
		treeName    = flag.String("tree", "", "Tree to inspect (default: all)")
		list        = flag.Bool("list", false, "List built-in trees and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	entries := gallery()

	if *list {
		for _, e := range entries {
			fmt.Println(e.name)
		}
		return
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(entries); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	selected := entries
	if *treeName != "" {
		selected = nil
		for _, e := range entries {
			if e.name == *treeName {
				selected = []galleryEntry{e}
				break
			}
		}
		if selected == nil {
			fmt.Fprintf(os.Stderr, "Error: unknown tree %q (use -list)\n", *treeName)
			os.Exit(1)
		}
	}

	for i, e := range selected {
		if i > 0 {
			fmt.Println()
		}
		if err := show(e); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func show(e galleryEntry) error {
	eng, err := engine.Compile(e.tree)
	if err != nil {
		return fmt.Errorf("compile %s: %w", e.name, err)
	}

	fmt.Printf("Tree: %s\n", e.name)
	fmt.Printf("Shape: %s\n", eng.Shape())
	fmt.Printf("Fingerprint: %s\n", eng.Fingerprint().Short())
	fmt.Println()
	fmt.Println(codec.Print(eng.Tree()))

	infos := codec.Describe(eng.Tree())
	if len(infos) == 0 {
		return nil
	}
	fmt.Println("\nAtoms:")
	for _, info := range infos {
		fmt.Printf("  %s", info.Atom)
		if len(info.Docs) > 0 {
			fmt.Printf("  (%s)", strings.Join(info.Docs, "; "))
		}
		fmt.Println()
	}
	return nil
}
