package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"webdesk/pkg/desktop"
	"webdesk/pkg/finder"
	"webdesk/pkg/kv"
	"webdesk/pkg/logging"
	"webdesk/pkg/router"
	"webdesk/pkg/terminal"
	"webdesk/pkg/vfs"
	"webdesk/pkg/wm"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// API serves the desktop JSON endpoints.
type API struct {
	hub    *desktop.Hub
	trees  desktop.TreeSource
	store  kv.Store
	logger *zap.Logger
}

// NewAPI returns the API over hub, trees and store.
func NewAPI(hub *desktop.Hub, trees desktop.TreeSource, store kv.Store, logger *zap.Logger) *API {
	if store == nil {
		store = kv.NewMemStore()
	}
	return &API{
		hub:    hub,
		trees:  trees,
		store:  store,
		logger: logging.OrNop(logger).Named("api"),
	}
}

// Register mounts the API routes on r.
func (a *API) Register(r *router.Router) {
	r.GET("/api/v1/fs", a.getNode)

	r.POST("/api/v1/desktops", a.createDesktop)
	r.GET("/api/v1/desktops/:id", a.getDesktop)
	r.DELETE("/api/v1/desktops/:id", a.deleteDesktop)
	r.POST("/api/v1/desktops/:id/actions", a.postAction)
	r.GET("/api/v1/desktops/:id/effects", a.getEffects)
	r.POST("/api/v1/desktops/:id/keys", a.postKey)

	r.GET("/api/v1/desktops/:id/windows/:wid/terminal", a.getTerminal)
	r.POST("/api/v1/desktops/:id/windows/:wid/terminal/submit", a.submitTerminal)
	r.POST("/api/v1/desktops/:id/windows/:wid/terminal/complete", a.completeTerminal)

	r.GET("/api/v1/desktops/:id/windows/:wid/finder", a.getFinder)
	r.POST("/api/v1/desktops/:id/windows/:wid/finder/navigate", a.navigateFinder)

	r.GET("/api/v1/kv/:key", a.getKV)
	r.PUT("/api/v1/kv/:key", a.putKV)
	r.DELETE("/api/v1/kv/:key", a.deleteKV)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps a domain error to a status code.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, desktop.ErrDesktopNotFound),
		errors.Is(err, desktop.ErrNoSession),
		errors.Is(err, wm.ErrAppNotFound):
		status = http.StatusNotFound
	case errors.Is(err, desktop.ErrTooManyDesktops):
		status = http.StatusServiceUnavailable
	case errors.Is(err, kv.ErrInvalidKey), errors.Is(err, kv.ErrInvalidValue):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed",
			zap.String("route", router.Pattern(r)),
			zap.String("request_id", logging.RequestID(r.Context())),
			zap.Error(err),
		)
	}
	writeError(w, status, err.Error())
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (a *API) desktop(w http.ResponseWriter, r *http.Request) (*desktop.Desktop, bool) {
	d, err := a.hub.Get(router.Param(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return nil, false
	}
	return d, true
}

// NodeView is the API form of a filesystem node.
type NodeView struct {
	Path     string       `json:"path"`
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	FileType vfs.FileType `json:"fileType,omitempty"`
	Content  string       `json:"content,omitempty"`
	URL      string       `json:"url,omitempty"`
	Children []NodeView   `json:"children,omitempty"`
}

func nodeView(p string, n vfs.Node, depth int) NodeView {
	v := NodeView{Path: p, Name: n.Name(), Type: n.Kind().String()}
	switch n := n.(type) {
	case *vfs.File:
		v.FileType = n.FileType()
		v.Content = n.Content()
		v.URL = n.URL()
	case *vfs.Folder:
		if p == vfs.Root {
			v.Name = vfs.Root
		}
		if depth > 0 {
			v.Children = []NodeView{}
			for _, c := range n.Children() {
				v.Children = append(v.Children, nodeView(vfs.Join(p, c.Name()), c, depth-1))
			}
		}
	}
	return v
}

func (a *API) getNode(w http.ResponseWriter, r *http.Request) {
	tree := a.trees.Current()
	switch tree.Status() {
	case vfs.StatusLoading:
		writeError(w, http.StatusServiceUnavailable, "file system is loading")
		return
	case vfs.StatusFailed:
		writeError(w, http.StatusServiceUnavailable, "File system not available")
		return
	}

	p := vfs.Resolve(vfs.HomePath, r.URL.Query().Get("path"))
	n, ok := tree.Node(p)
	if !ok {
		writeError(w, http.StatusNotFound, p+": No such file or directory")
		return
	}
	writeJSON(w, http.StatusOK, nodeView(p, n, 1))
}

type createDesktopRequest struct {
	Viewport *wm.Size `json:"viewport,omitempty"`
}

func (a *API) createDesktop(w http.ResponseWriter, r *http.Request) {
	var req createDesktopRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := a.hub.Create()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if req.Viewport != nil {
		d.SetViewport(*req.Viewport)
	}
	writeJSON(w, http.StatusCreated, d.Snapshot())
}

func (a *API) getDesktop(w http.ResponseWriter, r *http.Request) {
	if d, ok := a.desktop(w, r); ok {
		writeJSON(w, http.StatusOK, d.Snapshot())
	}
}

func (a *API) deleteDesktop(w http.ResponseWriter, r *http.Request) {
	if err := a.hub.Remove(router.Param(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActionRequest is a window manager action.
type ActionRequest struct {
	Action   string         `json:"action"`
	App      string         `json:"app,omitempty"`
	Title    string         `json:"title,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	ID       string         `json:"id,omitempty"`
	Position *wm.Position   `json:"position,omitempty"`
	Size     *wm.Size       `json:"size,omitempty"`
}

type actionResponse struct {
	WindowID string           `json:"windowId,omitempty"`
	Desktop  desktop.Snapshot `json:"desktop"`
}

func (a *API) postAction(w http.ResponseWriter, r *http.Request) {
	d, ok := a.desktop(w, r)
	if !ok {
		return
	}
	var req ActionRequest
	if !decode(w, r, &req) {
		return
	}

	var (
		id  = req.ID
		err error
	)
	switch req.Action {
	case "open":
		id, err = d.OpenApp(req.App, wm.OpenOptions{Title: req.Title, Data: req.Data})
	case "activate":
		id, err = d.ActivateApp(req.App)
	case "close":
		d.Dispatch(wm.CloseWindow{ID: req.ID})
	case "minimize":
		d.Dispatch(wm.MinimizeWindow{ID: req.ID})
	case "maximize":
		d.Dispatch(wm.MaximizeWindow{ID: req.ID})
	case "restore":
		d.Dispatch(wm.RestoreWindow{ID: req.ID})
	case "focus":
		d.Dispatch(wm.FocusWindow{ID: req.ID})
	case "move":
		if req.Position == nil {
			writeError(w, http.StatusBadRequest, "move requires a position")
			return
		}
		d.Dispatch(wm.UpdatePosition{ID: req.ID, Position: *req.Position})
	case "resize":
		if req.Size == nil {
			writeError(w, http.StatusBadRequest, "resize requires a size")
			return
		}
		d.Dispatch(wm.UpdateSize{ID: req.ID, Size: *req.Size})
	default:
		writeError(w, http.StatusBadRequest, "unknown action: "+req.Action)
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, actionResponse{WindowID: id, Desktop: d.Snapshot()})
}

func (a *API) getEffects(w http.ResponseWriter, r *http.Request) {
	if d, ok := a.desktop(w, r); ok {
		links := d.Effects()
		if links == nil {
			links = []string{}
		}
		writeJSON(w, http.StatusOK, map[string][]string{"links": links})
	}
}

type keyResponse struct {
	Handled  bool          `json:"handled"`
	WindowID string        `json:"windowId"`
	Terminal terminal.View `json:"terminal"`
}

func (a *API) postKey(w http.ResponseWriter, r *http.Request) {
	d, ok := a.desktop(w, r)
	if !ok {
		return
	}
	var k terminal.Key
	if !decode(w, r, &k) {
		return
	}

	focused, handled, err := d.HandleKey(k)
	if errors.Is(err, desktop.ErrNoSession) {
		writeError(w, http.StatusConflict, "focused window is not a terminal")
		return
	}

	resp := keyResponse{Handled: handled, WindowID: focused}
	if err := d.WithTerminal(focused, func(s *terminal.Session) { resp.Terminal = s.View() }); err != nil {
		// The key may have closed the window it was sent to.
		resp.Terminal = terminal.View{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// withTerminal resolves the desktop and runs fn on the window's terminal.
func (a *API) withTerminal(w http.ResponseWriter, r *http.Request, fn func(*terminal.Session) any) {
	d, ok := a.desktop(w, r)
	if !ok {
		return
	}
	var out any
	if err := d.WithTerminal(router.Param(r, "wid"), func(s *terminal.Session) { out = fn(s) }); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) getTerminal(w http.ResponseWriter, r *http.Request) {
	a.withTerminal(w, r, func(s *terminal.Session) any { return s.View() })
}

type lineRequest struct {
	Input string `json:"input"`
}

type submitResponse struct {
	Entry    *terminal.Entry `json:"entry"`
	Terminal terminal.View   `json:"terminal"`
}

func (a *API) submitTerminal(w http.ResponseWriter, r *http.Request) {
	var req lineRequest
	if !decode(w, r, &req) {
		return
	}
	a.withTerminal(w, r, func(s *terminal.Session) any {
		e := s.Submit(req.Input)
		s.SetInput("")
		return submitResponse{Entry: e, Terminal: s.View()}
	})
}

func (a *API) completeTerminal(w http.ResponseWriter, r *http.Request) {
	var req lineRequest
	if !decode(w, r, &req) {
		return
	}
	a.withTerminal(w, r, func(s *terminal.Session) any {
		s.SetInput(req.Input)
		return s.Complete()
	})
}

func (a *API) getFinder(w http.ResponseWriter, r *http.Request) {
	d, ok := a.desktop(w, r)
	if !ok {
		return
	}
	var v finder.View
	if err := d.WithFinder(router.Param(r, "wid"), func(f *finder.Finder) { v = f.View() }); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// FinderRequest is one Finder operation.
type FinderRequest struct {
	Op   string          `json:"op"`
	Path string          `json:"path,omitempty"`
	Name string          `json:"name,omitempty"`
	Mode finder.ViewMode `json:"mode,omitempty"`
}

type finderResponse struct {
	OK       bool        `json:"ok"`
	Message  string      `json:"message,omitempty"`
	WindowID string      `json:"windowId,omitempty"`
	Finder   finder.View `json:"finder"`
}

func (a *API) navigateFinder(w http.ResponseWriter, r *http.Request) {
	d, ok := a.desktop(w, r)
	if !ok {
		return
	}
	var req FinderRequest
	if !decode(w, r, &req) {
		return
	}

	var (
		resp  finderResponse
		valid = true
	)
	err := d.WithFinder(router.Param(r, "wid"), func(f *finder.Finder) {
		switch req.Op {
		case "navigate":
			resp.OK = f.NavigateTo(req.Path)
		case "back":
			resp.OK = f.Back()
		case "forward":
			resp.OK = f.Forward()
		case "select":
			resp.OK = f.Select(req.Name)
		case "mode":
			resp.OK = f.SetMode(req.Mode)
		case "activate":
			res, ok := f.Activate(req.Name)
			resp.OK = ok
			resp.Message = res.Message
			resp.WindowID = res.WindowID
			if !ok {
				resp.Message = "Cannot open " + req.Name
			}
		default:
			valid = false
		}
		resp.Finder = f.View()
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !valid {
		writeError(w, http.StatusBadRequest, "unknown op: "+req.Op)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) getKV(w http.ResponseWriter, r *http.Request) {
	v, found, err := a.store.Get(r.Context(), router.Param(r, "key"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "no such key")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(v)
}

func (a *API) putKV(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	if err := a.store.Put(r.Context(), router.Param(r, "key"), body); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) deleteKV(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Delete(r.Context(), router.Param(r, "key")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
