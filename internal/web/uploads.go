package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"carbonwise/internal"
)

const wsWriteTimeout = 5 * time.Second

// uploadFiles reads every file part of a multipart body. Contents are
// counted and thrown away; only the name, size and type reach the simulator.
func (s *Server) uploadFiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.deps.MaxUploadBytes)
		mr, err := r.MultipartReader()
		if err != nil {
			writeError(w, http.StatusBadRequest, "expected multipart/form-data")
			return
		}

		var refs []internal.FileRef
		for {
			part, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				writeUploadError(w, err)
				return
			}
			if part.FileName() == "" {
				_ = part.Close()
				continue
			}
			n, err := io.Copy(io.Discard, part)
			_ = part.Close()
			if err != nil {
				writeUploadError(w, err)
				return
			}
			refs = append(refs, internal.FileRef{
				Name:        part.FileName(),
				Size:        n,
				ContentType: part.Header.Get("Content-Type"),
			})
		}
		if len(refs) == 0 {
			writeError(w, http.StatusBadRequest, "no file uploaded")
			return
		}

		created := s.deps.Simulator.Submit(refs)
		writeJSON(w, http.StatusAccepted, map[string]any{"files": created})
	}
}

func writeUploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}
	writeError(w, http.StatusBadRequest, "malformed upload")
}

func (s *Server) listUploads() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"files": s.deps.Simulator.Tracker().List()})
	}
}

// watchUploads sends the current uploads and then every change as JSON
// messages until the client goes away.
func (s *Server) watchUploads() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			s.log.Warn("websocket accept", zap.Error(err))
			return
		}
		defer conn.CloseNow()

		tracker := s.deps.Simulator.Tracker()
		events, unsubscribe := tracker.Subscribe(256)
		defer unsubscribe()

		ctx := conn.CloseRead(r.Context())
		sent := map[string]internal.UploadedFile{}
		for _, f := range tracker.List() {
			if err := writeEvent(ctx, conn, f); err != nil {
				return
			}
			sent[f.ID] = f
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if prev, seen := sent[ev.File.ID]; seen && !newer(ev.File, prev) {
					continue
				}
				sent[ev.File.ID] = ev.File
				if err := writeEvent(ctx, conn, ev.File); err != nil {
					s.log.Debug("websocket write", zap.Error(err))
					return
				}
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, f internal.UploadedFile) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, map[string]any{"file": f})
}

// newer reports whether a is a later state of the same upload than b.
// Events queued before the initial listing can be older than what was
// already sent.
func newer(a, b internal.UploadedFile) bool {
	if ra, rb := stage(a.Status), stage(b.Status); ra != rb {
		return ra > rb
	}
	return a.Progress > b.Progress
}

func stage(s internal.UploadStatus) int {
	switch s {
	case internal.StatusUploading:
		return 0
	case internal.StatusProcessing:
		return 1
	default:
		return 2
	}
}
