package shell

import (
	"webdesk/pkg/apps"
	"webdesk/pkg/vfs"
)

// errNoFS is reported by filesystem commands run without a session.
const errNoFS = "File system not available"

// Builtins returns the standard command table.
func Builtins(r *Registry) []Command {
	return []Command{
		{Name: "help", Description: "Show this help message", Run: func(_ []string, _ *Context) *Output {
			return &Output{Kind: KindHelp, Commands: r.Help()}
		}},
		{Name: "pwd", Description: "Print current directory", Run: runPwd},
		{Name: "ls", Description: "List directory contents", Usage: "ls [path]", PathCompletion: true, Run: runLs},
		{Name: "cd", Description: "Change directory", Usage: "cd <path>", PathCompletion: true, Run: runCd},
		{Name: "cat", Description: "Display file contents", Usage: "cat <file>", PathCompletion: true, Run: runCat},
		{Name: "open", Description: "Open a file or application", Usage: "open <file|app>", PathCompletion: true, Run: runOpen},
		{Name: "clear", Description: "Clear the terminal", Run: func(_ []string, _ *Context) *Output {
			return &Output{Kind: KindClear}
		}},
	}
}

// Default returns a registry holding the builtins.
func Default() *Registry {
	r := NewRegistry()
	for _, c := range Builtins(r) {
		r.Register(c)
	}
	return r
}

func runPwd(_ []string, ctx *Context) *Output {
	if ctx.FS == nil {
		return Errorf(errNoFS)
	}
	return Text(ctx.FS.Cwd())
}

func runLs(args []string, ctx *Context) *Output {
	if ctx.FS == nil {
		return Errorf(errNoFS)
	}

	var target string
	if len(args) > 0 {
		target = args[0]
	}
	items, ok := ctx.FS.List(target)
	if !ok {
		return Errorf("ls: %s: No such file or directory", ctx.FS.ResolvePath(target))
	}
	return Listing(items)
}

func runCd(args []string, ctx *Context) *Output {
	if ctx.FS == nil {
		return Errorf(errNoFS)
	}

	target := "~"
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	if !ctx.FS.Navigate(target) {
		return Errorf("cd: %s: No such file or directory", ctx.FS.ResolvePath(target))
	}
	return nil
}

func runCat(args []string, ctx *Context) *Output {
	if ctx.FS == nil {
		return Errorf(errNoFS)
	}
	if len(args) == 0 {
		return Errorf("cat: missing operand")
	}

	p := args[0]
	n, ok := ctx.FS.Node(p)
	if !ok {
		return Errorf("cat: %s: No such file or directory", p)
	}

	switch n := n.(type) {
	case *vfs.Folder:
		return Errorf("cat: %s: Is a directory", p)
	case *vfs.File:
		switch n.FileType() {
		case vfs.FileTypePDF:
			return Info(p + " is a PDF file. Use open " + p + " to view it.")
		case vfs.FileTypeExecutable:
			return Info(p + " is an application. Use open " + p + " to launch it.")
		}
		if n.Content() == "" {
			return Info("(empty file)")
		}
		return Content(n.Content())
	}
	return nil
}

func runOpen(args []string, ctx *Context) *Output {
	if ctx.FS == nil {
		return Errorf(errNoFS)
	}
	if len(args) == 0 {
		return Errorf("open: missing operand")
	}

	p := args[0]
	n, ok := ctx.FS.Node(p)
	if !ok {
		return Errorf("open: %s: No such file or directory", p)
	}

	switch n := n.(type) {
	case *vfs.Folder:
		ctx.FS.Navigate(p)
		return nil
	case *vfs.File:
		if res, ok := apps.OpenFile(n, ctx.Windows, ctx.Browser); ok {
			return Info(res.Message)
		}
		return Info("Cannot open " + n.Name())
	}
	return nil
}
