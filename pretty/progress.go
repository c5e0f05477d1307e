package pretty

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/veldtlabs/sbomstage/common"
	"golang.org/x/term"
)

// ProgressIndicator defines the interface for progress visualization.
type ProgressIndicator interface {
	Start()
	Stop(success bool)
	Update(current int64, message string)
	IsRunning() bool
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// ProgressBar renders a single-line byte progress bar. It stays silent
// when the session is not interactive.
type ProgressBar struct {
	message string
	total   int64
	current int64
	running bool
	mu      sync.Mutex
}

func NewProgressBar(message string, total int64) ProgressIndicator {
	return &ProgressBar{
		message: message,
		total:   total,
	}
}

func (it *ProgressBar) Start() {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.running {
		return
	}
	it.running = true
	if !Interactive {
		common.Debug("%s", it.message)
		return
	}
	common.Stdout("%s", csi("?25l"))
	it.render()
}

func (it *ProgressBar) Stop(success bool) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if !it.running {
		return
	}
	it.running = false
	if !Interactive {
		return
	}
	it.render()
	common.Stdout("\n%s", csi("?25h"))
	if !success {
		common.Stdout("%s%s failed%s\n", Red, it.message, Reset)
	}
}

func (it *ProgressBar) Update(current int64, message string) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.current = current
	if len(message) > 0 {
		it.message = message
	}
	if it.running && Interactive {
		it.render()
	}
}

func (it *ProgressBar) IsRunning() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.running
}

func (it *ProgressBar) render() {
	ratio := 0.0
	if it.total > 0 {
		ratio = float64(it.current) / float64(it.total)
	}
	if ratio > 1.0 {
		ratio = 1.0
	}
	width := terminalWidth() - len(it.message) - 12
	if width < 10 {
		width = 10
	}
	done := int(ratio * float64(width))
	bar := strings.Repeat("=", done) + strings.Repeat(" ", width-done)
	common.Stdout("\r%s [%s%s%s] %3.0f%%", it.message, Green, bar, Reset, ratio*100)
}

// Spinner shows activity when total size is unknown.
type Spinner struct {
	message  string
	frames   []string
	running  bool
	stopChan chan bool
	mu       sync.Mutex
}

func NewSpinner(message string) ProgressIndicator {
	frames := []string{"|", "/", "-", "\\"}
	return &Spinner{
		message:  message,
		frames:   frames,
		stopChan: make(chan bool, 1),
	}
}

func (it *Spinner) Start() {
	it.mu.Lock()
	if it.running {
		it.mu.Unlock()
		return
	}
	it.running = true
	it.mu.Unlock()

	if !Interactive {
		common.Debug("%s", it.message)
		return
	}
	common.Stdout("%s", csi("?25l"))
	go it.animate()
}

func (it *Spinner) animate() {
	frame := 0
	for {
		select {
		case <-it.stopChan:
			return
		case <-time.After(120 * time.Millisecond):
			it.mu.Lock()
			if !it.running {
				it.mu.Unlock()
				return
			}
			common.Stdout("\r%s %s", it.frames[frame%len(it.frames)], it.message)
			frame += 1
			it.mu.Unlock()
		}
	}
}

func (it *Spinner) Stop(success bool) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if !it.running {
		return
	}
	it.running = false
	if !Interactive {
		return
	}
	it.stopChan <- true
	marker := fmt.Sprintf("%sok%s", Green, Reset)
	if !success {
		marker = fmt.Sprintf("%sfailed%s", Red, Reset)
	}
	common.Stdout("\r%s %s\n%s", it.message, marker, csi("?25h"))
}

func (it *Spinner) Update(current int64, message string) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if len(message) > 0 {
		it.message = message
	}
}

func (it *Spinner) IsRunning() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.running
}
