package upload

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbonwise/internal"
)

func TestTrackerRejectsBackwardsMoves(t *testing.T) {
	tr := NewTracker(nil)
	tr.Add(internal.UploadedFile{ID: "x", Status: internal.StatusUploading})

	_, err := tr.Apply("x", func(f *internal.UploadedFile) { f.Progress = 50 })
	require.NoError(t, err)

	_, err = tr.Apply("x", func(f *internal.UploadedFile) { f.Progress = 40 })
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	_, err = tr.Apply("x", func(f *internal.UploadedFile) { f.Status = internal.StatusCompleted })
	assert.True(t, errors.Is(err, ErrInvalidTransition), "uploading cannot jump to completed")

	_, err = tr.Apply("x", func(f *internal.UploadedFile) { f.Status = internal.StatusError })
	require.NoError(t, err)

	_, err = tr.Apply("x", func(f *internal.UploadedFile) { f.Status = internal.StatusProcessing })
	assert.True(t, errors.Is(err, ErrInvalidTransition), "error is terminal")

	got, _ := tr.Get("x")
	assert.Equal(t, internal.StatusError, got.Status)
	assert.Equal(t, 50, got.Progress)
}

func TestTrackerUnknownFile(t *testing.T) {
	tr := NewTracker(nil)
	_, err := tr.Apply("missing", func(*internal.UploadedFile) {})
	assert.True(t, errors.Is(err, ErrUnknownFile))
}

func TestTrackerListIsSnapshot(t *testing.T) {
	tr := NewTracker(nil)
	tr.Add(internal.UploadedFile{ID: "a", Status: internal.StatusUploading})
	before := tr.List()

	_, err := tr.Apply("a", func(f *internal.UploadedFile) { f.Progress = 10 })
	require.NoError(t, err)

	assert.Zero(t, before[0].Progress)
	assert.Equal(t, 10, tr.List()[0].Progress)

	tr.Reset()
	assert.Empty(t, tr.List())
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	tr := NewTracker(nil)
	ch, unsubscribe := tr.Subscribe(4)
	tr.Add(internal.UploadedFile{ID: "a", Status: internal.StatusUploading})

	ev := <-ch
	assert.Equal(t, "a", ev.File.ID)

	unsubscribe()
	unsubscribe()
	_, open := <-ch
	assert.False(t, open)

	tr.Add(internal.UploadedFile{ID: "b", Status: internal.StatusUploading})
}

func TestSlowSubscriberStillSeesFinalState(t *testing.T) {
	tr := NewTracker(nil)
	events, unsubscribe := tr.Subscribe(1)
	defer unsubscribe()

	tr.Add(internal.UploadedFile{ID: "a", Status: internal.StatusUploading})
	for p := 0; p <= 100; p += ProgressStep {
		progress := p
		_, err := tr.Apply("a", func(f *internal.UploadedFile) { f.Progress = progress })
		require.NoError(t, err)
	}
	_, err := tr.Apply("a", func(f *internal.UploadedFile) { f.Status = internal.StatusProcessing })
	require.NoError(t, err)
	_, err = tr.Apply("a", func(f *internal.UploadedFile) {
		f.Status = internal.StatusCompleted
		f.ExtractedData = &internal.ExtractedData{Type: internal.CategoryTransport}
	})
	require.NoError(t, err)

	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.File.Status == internal.StatusCompleted {
				assert.Equal(t, 100, ev.File.Progress)
				assert.NotNil(t, ev.File.ExtractedData)
				return
			}
		case <-timeout:
			t.Fatal("completed state never delivered")
		}
	}
}
