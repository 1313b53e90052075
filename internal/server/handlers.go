package server

import (
	"encoding/json"
	"io"
	"maps"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/freeboard/pkg/errors"
	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/interact"
	"github.com/matzehuels/freeboard/pkg/layout"
	"github.com/matzehuels/freeboard/pkg/widget"
)

const maxBodyBytes = 1 << 20

type addRequest struct {
	WidgetID string           `json:"widgetId"`
	Size     widget.SizeClass `json:"size,omitempty"`
	Settings map[string]any   `json:"settings,omitempty"`
}

type moveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type resizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type gestureResponse struct {
	Outcome string            `json:"outcome"`
	Blocked bool              `json:"blocked"`
	Widgets []widget.Instance `json:"widgets"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleWidgets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"widgets": s.registry.Descriptors()})
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	s.withWorkspace(w, r, func(ws *workspace) error {
		data, err := layout.Encode(ws.store.Layout())
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return nil
	})
}

func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	s.withWorkspace(w, r, func(ws *workspace) error {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
		}
		id := chi.URLParam(r, "workspace")
		l, migrated, err := layout.Parse(data, id, ws.store.Canvas())
		if err != nil {
			return err
		}
		l.WorkspaceID = id
		if err := ws.store.Replace(r.Context(), l); err != nil {
			return err
		}
		s.logger.Info("layout replaced", "workspace", id, "widgets", len(l.Widgets), "migrated", migrated)
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

func (s *Server) handleAddWidget(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.withWorkspace(w, r, func(ws *workspace) error {
		inst, err := s.registry.CreateInstance(req.WidgetID)
		if err != nil {
			return err
		}
		if req.Size != "" {
			size, err := widget.ParseSizeClass(string(req.Size))
			if err != nil {
				return err
			}
			inst.Width, inst.Height = size.Dimensions()
		}
		if inst.Settings == nil {
			inst.Settings = map[string]any{}
		}
		maps.Copy(inst.Settings, req.Settings)

		placed, err := ws.store.AddInstance(r.Context(), inst)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusCreated, placed)
		return nil
	})
}

func (s *Server) handleRemoveWidget(w http.ResponseWriter, r *http.Request) {
	s.withWorkspace(w, r, func(ws *workspace) error {
		if err := ws.store.RemoveInstance(r.Context(), chi.URLParam(r, "instance")); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

// handleSettings merges the request object into the instance settings.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, err)
		return
	}
	s.withWorkspace(w, r, func(ws *workspace) error {
		id := chi.URLParam(r, "instance")
		inst, ok := ws.store.Instance(id)
		if !ok {
			return errors.New(errors.ErrCodeInstanceNotFound, "instance %s not found", id)
		}
		if inst.Settings == nil {
			inst.Settings = map[string]any{}
		}
		maps.Copy(inst.Settings, patch)
		if err := ws.store.SaveInstance(r.Context(), inst); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, inst)
		return nil
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.withWorkspace(w, r, func(ws *workspace) error {
		out, pv, err := ws.coord.Drag(r.Context(), chi.URLParam(r, "instance"), geom.Point{X: req.X, Y: req.Y})
		if err != nil {
			return err
		}
		writeGesture(w, ws, out, pv)
		return nil
	})
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.withWorkspace(w, r, func(ws *workspace) error {
		out, pv, err := ws.coord.Resize(r.Context(), chi.URLParam(r, "instance"), req.Width, req.Height)
		if err != nil {
			return err
		}
		writeGesture(w, ws, out, pv)
		return nil
	})
}

// writeGesture answers 200 for a committed gesture and 409 for a reverted
// one; both carry the resulting layout.
func writeGesture(w http.ResponseWriter, ws *workspace, out interact.Outcome, pv interact.Preview) {
	status := http.StatusOK
	if out != interact.Committed {
		status = http.StatusConflict
	}
	writeJSON(w, status, gestureResponse{
		Outcome: out.String(),
		Blocked: pv.Blocked,
		Widgets: ws.store.Instances(),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(err), errorResponse{Error: errorBody{Code: code, Message: errors.UserMessage(err)}})
}
