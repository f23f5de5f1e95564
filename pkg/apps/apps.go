// Package apps defines the built-in desktop applications and the logic for
// opening a file node in the right one.
package apps

import (
	"webdesk/pkg/vfs"
	"webdesk/pkg/wm"
)

// Built-in app ids.
const (
	Terminal = "terminal"
	Finder   = "finder"
	TextEdit = "textedit"
	Preview  = "preview"
	Wordle   = "wordle"
)

// Definitions returns the built-in apps. Terminal and Finder are singletons.
func Definitions() []wm.App {
	return []wm.App{
		{ID: Terminal, Name: "visitor@webdesk — zsh", DefaultSize: wm.Size{Width: 1000, Height: 700}, Singleton: true},
		{ID: Finder, Name: "Finder", DefaultSize: wm.Size{Width: 900, Height: 600}, Singleton: true},
		{ID: TextEdit, Name: "TextEdit", DefaultSize: wm.Size{Width: 720, Height: 540}},
		{ID: Preview, Name: "Preview", DefaultSize: wm.Size{Width: 800, Height: 640}},
		{ID: Wordle, Name: "Wordle", DefaultSize: wm.Size{Width: 480, Height: 640}},
	}
}

// NewRegistry returns a registry holding the built-in apps.
func NewRegistry() *wm.Registry {
	return wm.NewRegistry(Definitions()...)
}

// Opener opens application windows. *wm.Manager satisfies it.
type Opener interface {
	OpenApp(appID string, opts wm.OpenOptions) (string, error)
}

// Browser opens a URL in a new browsing context.
type Browser interface {
	OpenURL(url string)
}

// TextEditData is the payload of a text viewer window.
type TextEditData struct {
	FileName string
	FileType vfs.FileType
	Content  string
}

// Map encodes the payload for wm.OpenOptions.
func (d TextEditData) Map() map[string]any {
	return map[string]any{
		"fileName": d.FileName,
		"fileType": string(d.FileType),
		"content":  d.Content,
	}
}

// TextEditDataFrom decodes a text viewer payload.
func TextEditDataFrom(data map[string]any) (TextEditData, bool) {
	name, ok := data["fileName"].(string)
	if !ok {
		return TextEditData{}, false
	}
	ft, _ := data["fileType"].(string)
	content, _ := data["content"].(string)
	return TextEditData{FileName: name, FileType: vfs.FileType(ft), Content: content}, true
}

// PreviewData is the payload of a preview window.
type PreviewData struct {
	FileName string
	URL      string
}

// Map encodes the payload for wm.OpenOptions.
func (d PreviewData) Map() map[string]any {
	return map[string]any{"fileName": d.FileName, "url": d.URL}
}

// PreviewDataFrom decodes a preview payload.
func PreviewDataFrom(data map[string]any) (PreviewData, bool) {
	name, ok := data["fileName"].(string)
	if !ok {
		return PreviewData{}, false
	}
	url, _ := data["url"].(string)
	return PreviewData{FileName: name, URL: url}, true
}
