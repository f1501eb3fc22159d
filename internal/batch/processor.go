package batch

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"rig-renderer/internal/logging"
	"rig-renderer/internal/postprocess"

	"github.com/HugoSmits86/nativewebp"
)

// Config holds the shared settings of a frame writer.
type Config struct {
	OutputDir  string
	RenderSize int // final edge length; larger frames are downsampled
	Workers    int
}

// Frame is one rendered image waiting to be written.
type Frame struct {
	Index int
	Tick  int
	Image *image.NRGBA
}

// Result holds the outcome of writing one frame.
type Result struct {
	Index   int
	Tick    int
	Path    string
	Success bool
	Error   string
}

// FileName is the output name of frame index.
func FileName(index int) string {
	return fmt.Sprintf("frame_%04d.webp", index)
}

// Writer encodes frames to WebP on a worker pool. Frames may be submitted
// while rendering continues; results are collected by Close.
type Writer struct {
	cfg       Config
	frames    chan Frame
	wg        sync.WaitGroup
	mu        sync.Mutex
	results   []Result
	processed atomic.Int64
	submitted atomic.Int64
	done      chan struct{}
}

// Start launches the workers and a progress reporter.
func Start(cfg Config) (*Writer, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("batch: create %s: %w", cfg.OutputDir, err)
	}

	w := &Writer{
		cfg:    cfg,
		frames: make(chan Frame, cfg.Workers*2),
		done:   make(chan struct{}),
	}

	start := time.Now()
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-w.done:
				return
			case <-ticker.C:
				p := w.processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					logging.Info("writing frames", "done", p, "queued", w.submitted.Load(), "fps", fmt.Sprintf("%.1f", rate))
				}
			}
		}
	}()

	for i := 0; i < cfg.Workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for f := range w.frames {
				r := w.process(f)
				w.mu.Lock()
				w.results = append(w.results, r)
				w.mu.Unlock()
				w.processed.Add(1)
			}
		}()
	}
	return w, nil
}

// Submit queues a frame. The writer owns the image afterwards.
func (w *Writer) Submit(f Frame) {
	w.submitted.Add(1)
	w.frames <- f
}

// Close waits for all queued frames and returns their results ordered by index.
func (w *Writer) Close() []Result {
	close(w.frames)
	w.wg.Wait()
	close(w.done)

	results := make([]Result, len(w.results))
	copy(results, w.results)
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

func (w *Writer) process(f Frame) Result {
	res := Result{Index: f.Index, Tick: f.Tick, Path: filepath.Join(w.cfg.OutputDir, FileName(f.Index))}

	img := f.Image
	if w.cfg.RenderSize > 0 {
		img = postprocess.Downsample(img, w.cfg.RenderSize)
	}

	// The encoder drops write errors, so it encodes into memory first.
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}
	if err := writeFile(res.Path, buf.Bytes()); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}

// writeFile writes data to path and removes the file again if any step fails.
func writeFile(path string, data []byte) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
