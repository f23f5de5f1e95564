package apps

import (
	"webdesk/pkg/vfs"
	"webdesk/pkg/wm"
)

// OpenResult describes what OpenFile did.
type OpenResult struct {
	Message string
	// WindowID is set when a window was opened or focused.
	WindowID string
}

// OpenFile opens f in the app its type calls for. Executables launch the app
// named by their content, markdown and text open in TextEdit, PDFs in
// Preview, and links in the browser. It reports false when f cannot be
// opened, including when the required capability is missing.
func OpenFile(f *vfs.File, opener Opener, browser Browser) (OpenResult, bool) {
	open := func(appID string, opts wm.OpenOptions) (OpenResult, bool) {
		if opener == nil {
			return OpenResult{}, false
		}
		id, err := opener.OpenApp(appID, opts)
		if err != nil {
			return OpenResult{}, false
		}
		return OpenResult{Message: "Opening " + f.Name() + "...", WindowID: id}, true
	}

	switch f.FileType() {
	case vfs.FileTypeExecutable:
		if f.Content() != "" {
			return open(f.Content(), wm.OpenOptions{})
		}
	case vfs.FileTypeMarkdown, vfs.FileTypeText:
		data := TextEditData{FileName: f.Name(), FileType: f.FileType(), Content: f.Content()}
		return open(TextEdit, wm.OpenOptions{Title: f.Name(), Data: data.Map()})
	case vfs.FileTypePDF:
		if f.URL() != "" {
			data := PreviewData{FileName: f.Name(), URL: f.URL()}
			return open(Preview, wm.OpenOptions{Title: f.Name(), Data: data.Map()})
		}
	case vfs.FileTypeLink:
		if f.URL() != "" && browser != nil {
			browser.OpenURL(f.URL())
			return OpenResult{Message: "Opening " + f.Name() + " in new tab..."}, true
		}
	}
	return OpenResult{}, false
}
