package frontier

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
)

type recordingProcessor struct {
	mu       sync.Mutex
	frontier *Memory
	seen     []extractor.Visit
	followUp func(v extractor.Visit) []extractor.Visit
}

func (p *recordingProcessor) Process(ctx context.Context, v extractor.Visit) {
	p.mu.Lock()
	p.seen = append(p.seen, v)
	p.mu.Unlock()
	if p.followUp != nil {
		for _, next := range p.followUp(v) {
			_ = p.frontier.Enqueue(ctx, next)
		}
	}
}

func TestRunDrainsQueue(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	p := &recordingProcessor{frontier: m}

	for _, u := range []string{"https://a.com/", "https://b.com/"} {
		require.NoError(t, m.Enqueue(context.Background(), extractor.Visit{
			URL: u, Label: extractor.LabelHome, CompanyDomain: u,
		}))
	}

	require.NoError(t, m.Run(context.Background(), 4, p))
	assert.Len(t, p.seen, 2)
}

func TestRunProcessesFollowUps(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	p := &recordingProcessor{frontier: m}
	p.followUp = func(v extractor.Visit) []extractor.Visit {
		if v.Label != extractor.LabelHome {
			return nil
		}
		return []extractor.Visit{
			{URL: v.URL + "team", Label: extractor.LabelTeam, CompanyDomain: v.CompanyDomain},
		}
	}

	require.NoError(t, m.Enqueue(context.Background(), extractor.Visit{
		URL: "https://a.com/", Label: extractor.LabelHome, CompanyDomain: "a.com",
	}))

	require.NoError(t, m.Run(context.Background(), 2, p))
	require.Len(t, p.seen, 2)
}

func TestEnqueueDedupesByUniqueKey(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	p := &recordingProcessor{frontier: m}

	v := extractor.Visit{URL: "https://a.com/team", Label: extractor.LabelTeam, CompanyDomain: "a.com"}
	require.NoError(t, m.Enqueue(context.Background(), v))
	require.NoError(t, m.Enqueue(context.Background(), v))

	require.NoError(t, m.Run(context.Background(), 1, p))
	assert.Len(t, p.seen, 1)
}

func TestForefrontJumpsQueue(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	p := &recordingProcessor{frontier: m}

	require.NoError(t, m.Enqueue(context.Background(), extractor.Visit{URL: "https://a.com/1", Label: extractor.LabelTeam, CompanyDomain: "a.com"}))
	require.NoError(t, m.Enqueue(context.Background(), extractor.Visit{URL: "https://a.com/2", Label: extractor.LabelTeam, CompanyDomain: "a.com"}))
	require.NoError(t, m.Enqueue(context.Background(), extractor.Visit{URL: "https://a.com/retry", Label: extractor.LabelHome, CompanyDomain: "a.com", Forefront: true}))

	require.NoError(t, m.Run(context.Background(), 1, p))
	require.Len(t, p.seen, 3)
	assert.Equal(t, "https://a.com/retry", p.seen[0].URL)
}

func TestRunCanceledContext(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	p := &recordingProcessor{frontier: m}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, m.Enqueue(ctx, extractor.Visit{URL: "https://a.com/", Label: extractor.LabelHome, CompanyDomain: "a.com"}))
	err := m.Run(ctx, 2, p)
	assert.Error(t, err)
}
