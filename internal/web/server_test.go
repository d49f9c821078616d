package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"carbonwise/internal"
	"carbonwise/internal/activity"
	"carbonwise/internal/analysis"
	"carbonwise/internal/clock"
	"carbonwise/internal/dashboard"
	"carbonwise/internal/storage"
	"carbonwise/internal/upload"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	srv *httptest.Server
	sim *upload.Simulator
}

// newFixture wires the server with zero delays so uploads and analyses
// finish immediately.
func newFixture(t *testing.T, maxUpload int64) *fixture {
	t.Helper()
	store := storage.NewMemoryStore()
	sim := upload.NewSimulator(upload.NewTracker(nil), upload.Options{
		Extractor: upload.NewMockExtractor(7),
	})
	s := NewServer(Deps{
		Simulator:      sim,
		Collector:      activity.NewCollector(),
		Aggregator:     analysis.NewAggregator(store, analysis.Options{}),
		Presenter:      dashboard.NewPresenter(store),
		Store:          store,
		Clock:          clock.NewFake(epoch),
		MaxUploadBytes: maxUpload,
	})
	srv := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		srv.Close()
		_ = sim.Close()
	})
	return &fixture{srv: srv, sim: sim}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (f *fixture) upload(t *testing.T, files map[string]string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "ignored"))
	for name, content := range files {
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(f.srv.URL+"/api/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type filesBody struct {
	Files []internal.UploadedFile `json:"files"`
}

func TestPing(t *testing.T) {
	f := newFixture(t, 0)
	resp := f.do(t, http.MethodGet, "/api/ping", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "Carbonwise API is running!", body["message"])
	assert.Equal(t, "2026-03-01T09:00:00Z", body["timestamp"])
}

func TestUploadRunsSimulation(t *testing.T) {
	f := newFixture(t, 0)
	resp := f.upload(t, map[string]string{"electricity-march.pdf": "kwh 320", "fuel.csv": "litres,40"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	created := decode[filesBody](t, resp)
	require.Len(t, created.Files, 2)
	for _, file := range created.Files {
		assert.Equal(t, internal.StatusUploading, file.Status)
		assert.Positive(t, file.File.Size)
	}

	require.NoError(t, f.sim.Wait())
	list := decode[filesBody](t, f.do(t, http.MethodGet, "/api/uploads", nil))
	require.Len(t, list.Files, 2)
	for _, file := range list.Files {
		assert.Equal(t, internal.StatusCompleted, file.Status)
		assert.Equal(t, 100, file.Progress)
		require.NotNil(t, file.ExtractedData)
		assert.Equal(t, upload.CategoryForName(file.File.Name), file.ExtractedData.Type)
	}
}

func TestUploadRejectsBadRequests(t *testing.T) {
	f := newFixture(t, 0)

	resp := f.upload(t, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/upload", map[string]string{"file": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[errorBody](t, resp).Error, "multipart")
}

func TestUploadTooLarge(t *testing.T) {
	f := newFixture(t, 64)
	resp := f.upload(t, map[string]string{"big.pdf": strings.Repeat("x", 4096)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Empty(t, decode[filesBody](t, f.do(t, http.MethodGet, "/api/uploads", nil)).Files)
}

func TestActivityEditing(t *testing.T) {
	f := newFixture(t, 0)

	list := decode[activitiesBody](t, f.do(t, http.MethodGet, "/api/activities", nil))
	require.Len(t, list.Activities, 1)

	resp := f.do(t, http.MethodDelete, "/api/activities/0", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = f.do(t, http.MethodPatch, "/api/activities/0", fieldUpdate{Field: "type", Value: "transport"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "transport", decode[internal.ManualActivity](t, resp).Type)

	resp = f.do(t, http.MethodPatch, "/api/activities/0", fieldUpdate{Field: "colour", Value: "red"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = f.do(t, http.MethodPatch, "/api/activities/5", fieldUpdate{Field: "value", Value: "1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = f.do(t, http.MethodPatch, "/api/activities/abc", fieldUpdate{Field: "value", Value: "1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/activities", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	added := decode[map[string]any](t, resp)
	assert.EqualValues(t, 1, added["index"])

	resp = f.do(t, http.MethodDelete, "/api/activities/0", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	left := decode[activitiesBody](t, resp)
	require.Len(t, left.Activities, 1)
	assert.Empty(t, left.Activities[0].Type)

	resp = f.do(t, http.MethodPut, "/api/activities", activitiesBody{Activities: []internal.ManualActivity{
		{Type: "food", Value: "2"}, {Type: "energy", Value: "120", Unit: "kWh"},
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[activitiesBody](t, resp).Activities, 2)
}

func TestEstimate(t *testing.T) {
	f := newFixture(t, 0)
	body := decode[map[string]any](t, f.do(t, http.MethodGet, "/api/estimate?distance=10&mode=bus", nil))
	assert.InDelta(t, 0.5, body["emissions"], 1e-9)

	body = decode[map[string]any](t, f.do(t, http.MethodGet, "/api/estimate?distance=10&mode=rocket", nil))
	assert.EqualValues(t, 0, body["emissions"])

	body = decode[map[string]any](t, f.do(t, http.MethodGet, "/api/estimate/modes", nil))
	assert.Len(t, body["modes"], 6)
}

func TestAnalyzeDashboardAndReport(t *testing.T) {
	f := newFixture(t, 0)

	resp := f.do(t, http.MethodPost, "/api/analyze", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	view := decode[dashboard.View](t, f.do(t, http.MethodGet, "/api/dashboard", nil))
	assert.True(t, view.Empty)
	assert.Equal(t, "/upload", view.PromptLink)

	resp = f.do(t, http.MethodGet, "/api/report.xlsx", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	f.do(t, http.MethodPut, "/api/activities", activitiesBody{Activities: []internal.ManualActivity{
		{Type: "transport", Value: "10"}, {Type: "food"},
	}})
	resp = f.do(t, http.MethodPost, "/api/analyze", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[analyzeResponse](t, resp)
	assert.True(t, result.Success)
	assert.Equal(t, DashboardPath, result.Redirect)
	assert.Equal(t, []internal.ManualActivity{{Type: "transport", Value: "10"}}, result.Snapshot.Activities)
	assert.InDelta(t, 2.1, result.Analysis.TotalEmissions, 1e-9)

	view = decode[dashboard.View](t, f.do(t, http.MethodGet, "/api/dashboard?period=weekly", nil))
	assert.False(t, view.Empty)
	assert.InDelta(t, 54.5, view.Total, 1e-9)
	assert.Equal(t, 1, view.ActivityCount)

	resp = f.do(t, http.MethodGet, "/api/dashboard?period=yearly", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/report.xlsx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxMIME, resp.Header.Get("Content-Type"))
	wb, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer wb.Close()
	total, _ := wb.GetCellValue("Summary", "B2")
	assert.Equal(t, "2.1", total)

	resp = f.do(t, http.MethodGet, "/dashboard?period=monthly", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "156.7 kg CO₂", strings.TrimSpace(doc.Find("#total").Text()))

	resp = f.do(t, http.MethodPost, "/api/reset", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	view = decode[dashboard.View](t, f.do(t, http.MethodGet, "/api/dashboard", nil))
	assert.True(t, view.Empty)
}

func TestAnalyzeSurvivesClientDisconnect(t *testing.T) {
	store := storage.NewMemoryStore()
	collector := activity.NewCollector()
	collector.Replace([]internal.ManualActivity{{Type: "food", Value: "2"}})
	sim := upload.NewSimulator(upload.NewTracker(nil), upload.Options{})
	defer sim.Close()
	s := NewServer(Deps{
		Simulator:  sim,
		Collector:  collector,
		Aggregator: analysis.NewAggregator(store, analysis.Options{}),
		Presenter:  dashboard.NewPresenter(store),
		Store:      store,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Activities, 1)
}

func TestWatchUploadsStreamsProgress(t *testing.T) {
	f := newFixture(t, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/api/uploads/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	resp := f.upload(t, map[string]string{"electricity.pdf": "320 kWh"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	id := decode[filesBody](t, resp).Files[0].ID

	last := -1
	for {
		var msg struct {
			File internal.UploadedFile `json:"file"`
		}
		require.NoError(t, wsjson.Read(ctx, conn, &msg))
		if msg.File.ID != id {
			continue
		}
		require.GreaterOrEqual(t, msg.File.Progress, last)
		last = msg.File.Progress
		if msg.File.Status == internal.StatusCompleted {
			require.NotNil(t, msg.File.ExtractedData)
			assert.Equal(t, internal.CategoryEnergy, msg.File.ExtractedData.Type)
			break
		}
	}
	conn.Close(websocket.StatusNormalClosure, "")
}
