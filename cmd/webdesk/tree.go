package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"webdesk/pkg/vfs"
)

var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: "Print the manifest's filesystem",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree(cmd.Context())
		if err != nil {
			return err
		}
		p := vfs.Root
		if len(args) == 1 {
			p = vfs.Resolve(vfs.Root, args[0])
		}
		n, ok := tree.Node(p)
		if !ok {
			return fmt.Errorf("%s: No such file or directory", p)
		}
		printTree(cmd.OutOrStdout(), p, n)
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d nodes\n", vfs.Count(n))
		return nil
	},
}

var (
	folderColor = color.New(color.FgBlue, color.Bold)
	execColor   = color.New(color.FgGreen)
	linkColor   = color.New(color.FgCyan)
	mutedColor  = color.New(color.Faint)
)

// printTree writes n and its descendants in the style of tree(1).
func printTree(w io.Writer, p string, n vfs.Node) {
	label := p
	if p != vfs.Root {
		label = vfs.Base(p)
	}
	printNode(w, label, n)
	fmt.Fprintln(w)
	if f, ok := n.(*vfs.Folder); ok {
		printChildren(w, f, "")
	}
}

func printChildren(w io.Writer, f *vfs.Folder, prefix string) {
	children := f.Children()
	for i, c := range children {
		branch, indent := "├── ", "│   "
		if i == len(children)-1 {
			branch, indent = "└── ", "    "
		}
		fmt.Fprint(w, prefix+branch)
		printNode(w, c.Name(), c)
		fmt.Fprintln(w)
		if sub, ok := c.(*vfs.Folder); ok {
			printChildren(w, sub, prefix+indent)
		}
	}
}

func printNode(w io.Writer, name string, n vfs.Node) {
	switch n := n.(type) {
	case *vfs.Folder:
		if name != vfs.Root {
			name += "/"
		}
		folderColor.Fprint(w, name)
	case *vfs.File:
		switch n.FileType() {
		case vfs.FileTypeExecutable:
			execColor.Fprint(w, name)
		case vfs.FileTypeLink:
			linkColor.Fprint(w, name)
			mutedColor.Fprint(w, " -> "+n.URL())
		default:
			fmt.Fprint(w, name)
		}
	}
}
