package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"message", KindMessage},
		{"MSG", KindMessage},
		{"post", KindMessage},
		{"share", KindShare},
		{"Repost", KindShare},
		{"activity", KindActivity},
		{"event", KindActivity},
		{"", KindUnknown},
		{"gibberish", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKind(tt.in))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "message", KindMessage.String())
	assert.Equal(t, "share", KindShare.String())
	assert.Equal(t, "activity", KindActivity.String())
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestItem_Capabilities(t *testing.T) {
	it := &Item{
		Body:     "hello",
		Comments: 2,
		Likes:    7,
		Image:    true,
		Kind:     KindMessage,
	}

	assert.Equal(t, "hello", it.Text())
	assert.Equal(t, 2, it.CommentCount())
	assert.Equal(t, 7, it.LikeCount())
	assert.True(t, it.HasImage())
	assert.False(t, it.HasVideo())
	assert.True(t, it.IsMessage())
}

func TestItem_IsMessageOnlyForMessages(t *testing.T) {
	assert.False(t, (&Item{Kind: KindShare}).IsMessage())
	assert.False(t, (&Item{Kind: KindActivity}).IsMessage())
	assert.False(t, (&Item{Kind: KindUnknown}).IsMessage())
}

func TestItem_DetachIsIdempotent(t *testing.T) {
	it := &Item{Body: "x"}
	assert.False(t, it.Detached())

	it.Detach()
	it.Detach()
	assert.True(t, it.Detached())
}

func TestItem_Format(t *testing.T) {
	it := &Item{Body: "hi", Comments: 1, Likes: 2, Image: true, Video: true, Kind: KindShare}
	s := it.Format()
	assert.Contains(t, s, "[share]")
	assert.Contains(t, s, "comments=1")
	assert.Contains(t, s, "likes=2")
	assert.Contains(t, s, "image")
	assert.Contains(t, s, "video")
	assert.Contains(t, s, "hi")
}
