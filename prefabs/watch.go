package prefabs

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind says which tuning a changed file feeds.
type ChangeKind int

const (
	ChangeOther ChangeKind = iota
	ChangePhysics
	ChangeAgent
	ChangePlatforms
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangePhysics:
		return "physics"
	case ChangeAgent:
		return "agent"
	case ChangePlatforms:
		return "platforms"
	case ChangeScript:
		return "script"
	default:
		return "other"
	}
}

type Change struct {
	Path string
	Kind ChangeKind
}

// Classify maps a changed path to the tuning it feeds.
func Classify(path string) ChangeKind {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case base == PhysicsFile:
		return ChangePhysics
	case base == AgentFile:
		return ChangeAgent
	case base == PlatformsFile:
		return ChangePlatforms
	case isScriptFile(base):
		return ChangeScript
	default:
		return ChangeOther
	}
}

// Watcher reports edits to prefab specs and scripts. Writes to one file that
// follow each other within Debounce collapse into a single change, reported
// Debounce after the last of them.
type Watcher struct {
	watcher  *fsnotify.Watcher
	Events   chan Change
	Errors   chan error
	Debounce time.Duration
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher:  w,
		Events:   make(chan Change, 16),
		Errors:   make(chan error, 1),
		Debounce: 100 * time.Millisecond,
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	// A path is reported once Debounce has passed since its latest write.
	pending := make(map[string]time.Time)
	timer := time.NewTimer(w.Debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isSpecFile(event.Name) && !isScriptFile(event.Name) {
				continue
			}
			pending[event.Name] = time.Now().Add(w.Debounce)
			arm(timer, pending)
		case now := <-timer.C:
			var due []string
			for path, at := range pending {
				if !at.After(now) {
					due = append(due, path)
				}
			}
			slices.Sort(due)
			for _, path := range due {
				delete(pending, path)
				select {
				case w.Events <- Change{Path: path, Kind: Classify(path)}:
				case <-w.closeCh:
					return
				}
			}
			arm(timer, pending)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// arm points timer at the earliest pending deadline.
func arm(timer *time.Timer, pending map[string]time.Time) {
	var next time.Time
	for _, at := range pending {
		if next.IsZero() || at.Before(next) {
			next = at
		}
	}
	if next.IsZero() {
		timer.Stop()
		return
	}
	timer.Reset(time.Until(next))
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
