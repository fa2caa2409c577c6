package source

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/daehyun-ko/feedsweep/internal/entry"
)

// ItemSpec is one fixture entry.
type ItemSpec struct {
	ID       string `yaml:"id"`
	Body     string `yaml:"body"`
	Comments int    `yaml:"comments"`
	Likes    int    `yaml:"likes"`
	Image    bool   `yaml:"image"`
	Video    bool   `yaml:"video"`
	Kind     string `yaml:"kind"`
}

// PageSpec is one feed page. LoadMore appends a load-more control after the
// page's entries; Lazy delays the control until a scroll signal arrives,
// mimicking a host page that only renders its control on scroll activity.
type PageSpec struct {
	Entries  []ItemSpec `yaml:"entries"`
	LoadMore bool       `yaml:"loadmore"`
	Lazy     bool       `yaml:"lazy"`
}

// FeedSpec is a whole replayable feed.
type FeedSpec struct {
	Pages []PageSpec `yaml:"pages"`
}

type replayCmdKind int

const (
	cmdScroll replayCmdKind = iota
	cmdInvoke
)

type replayCmd struct {
	kind replayCmdKind
	page int
}

// ReplaySource replays a YAML feed fixture page by page. The first page is
// delivered immediately; each further page is delivered when its
// predecessor's control is invoked. The source implements paginate.Scroller
// so the controller's passive-scroll loop can reveal lazy controls.
type ReplaySource struct {
	name string
	feed FeedSpec
	cmds chan replayCmd
	seq  atomic.Uint64
}

// NewReplaySource loads a feed fixture from a YAML file.
func NewReplaySource(path string) (*ReplaySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feed fixture %s: %w", path, err)
	}
	var feed FeedSpec
	if err := yaml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("parse feed fixture %s: %w", path, err)
	}
	if len(feed.Pages) == 0 {
		return nil, fmt.Errorf("feed fixture %s has no pages", path)
	}
	return NewReplayFeed(fmt.Sprintf("replay:%s", path), feed), nil
}

// NewReplayFeed creates a replay source from an in-memory feed.
func NewReplayFeed(name string, feed FeedSpec) *ReplaySource {
	return &ReplaySource{
		name: name,
		feed: feed,
		cmds: make(chan replayCmd, 16),
	}
}

// Name returns the source identifier.
func (s *ReplaySource) Name() string { return s.name }

// Scroll delivers one passive-scroll signal. Signals are lossy: when the
// source is busy the signal is dropped, the next tick brings another.
func (s *ReplaySource) Scroll() {
	select {
	case s.cmds <- replayCmd{kind: cmdScroll}:
	default:
	}
}

// Start begins replay and returns the batch channel.
func (s *ReplaySource) Start(ctx context.Context) (<-chan Batch, error) {
	out := make(chan Batch, 16)

	go func() {
		defer close(out)

		cur := 0
		batchSeq := 0
		revealed := false

		emitPage := func(i int) bool {
			page := s.feed.Pages[i]
			nodes := make([]Node, 0, len(page.Entries)+1)
			for _, spec := range page.Entries {
				nodes = append(nodes, s.item(spec))
			}
			revealed = false
			if page.LoadMore && !page.Lazy {
				nodes = append(nodes, &replayControl{src: s, page: i})
				revealed = true
			}
			batchSeq++
			select {
			case out <- Batch{Seq: batchSeq, Nodes: nodes}:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emitPage(cur) {
			return
		}

		for {
			// A final page without a control means the feed is exhausted.
			if !s.feed.Pages[cur].LoadMore {
				return
			}

			select {
			case <-ctx.Done():
				return
			case cmd := <-s.cmds:
				switch cmd.kind {
				case cmdScroll:
					if s.feed.Pages[cur].Lazy && !revealed {
						revealed = true
						batchSeq++
						select {
						case out <- Batch{Seq: batchSeq, Nodes: []Node{&replayControl{src: s, page: cur}}}:
						case <-ctx.Done():
							return
						}
					}
				case cmdInvoke:
					if cmd.page != cur || !revealed || cur+1 >= len(s.feed.Pages) {
						continue // stale click, ignore
					}
					cur++
					if !emitPage(cur) {
						return
					}
				}
			}
		}
	}()

	return out, nil
}

func (s *ReplaySource) item(spec ItemSpec) *entry.Item {
	kind := entry.ParseKind(spec.Kind)
	if spec.Kind == "" {
		kind = entry.KindMessage
	}
	return &entry.Item{
		ID:       spec.ID,
		Body:     spec.Body,
		Comments: spec.Comments,
		Likes:    spec.Likes,
		Image:    spec.Image,
		Video:    spec.Video,
		Kind:     kind,
		Seq:      s.seq.Add(1),
	}
}

// replayControl is the single-use load-more handle for one replay page.
type replayControl struct {
	src  *ReplaySource
	page int
	used atomic.Bool
}

// Invoke advances the replay to the next page. Reports false once the
// control has already been used or the source no longer accepts commands.
func (rc *replayControl) Invoke() bool {
	if rc.used.Swap(true) {
		return false
	}
	select {
	case rc.src.cmds <- replayCmd{kind: cmdInvoke, page: rc.page}:
		return true
	default:
		return false
	}
}
