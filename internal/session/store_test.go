package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnav/rapidreach/internal/types"
)

func record(id string, createdAt time.Time) *Record {
	return &Record{Result: &types.SDRResult{SessionID: id, CreatedAt: createdAt}}
}

func TestStore_PutGet(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Get("missing"))

	rec := record("s-1", time.Now())
	rec.Deck = &types.Deck{Filename: "deck.pptx"}
	s.Put("s-1", rec)

	got := s.Get("s-1")
	require.NotNil(t, got)
	assert.Equal(t, "s-1", got.Result.SessionID)
	assert.Equal(t, "deck.pptx", got.Deck.Filename)
	assert.Equal(t, 1, s.Len())
}

func TestStore_PutReplaces(t *testing.T) {
	s := NewStore()
	s.Put("s-1", record("s-1", time.Now()))
	updated := record("s-1", time.Now())
	updated.Result.BusinessName = "Joe's Cafe"
	s.Put("s-1", updated)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "Joe's Cafe", s.Get("s-1").Result.BusinessName)
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := NewStore()
	base := time.Now()
	s.Put("old", record("old", base.Add(-time.Hour)))
	s.Put("new", record("new", base))
	s.Put("mid", record("mid", base.Add(-30*time.Minute)))

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].Result.SessionID)
	assert.Equal(t, "mid", list[1].Result.SessionID)
	assert.Equal(t, "old", list[2].Result.SessionID)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", i)
			s.Put(id, record(id, time.Now()))
			s.Get(id)
			s.List()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}
