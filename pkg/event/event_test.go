package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFireInOrder(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	var got []string
	Listen("build.item_added", func(_ context.Context, p interface{}) { got = append(got, "a:"+p.(string)) })
	Listen("build.item_added", func(_ context.Context, p interface{}) { got = append(got, "b:"+p.(string)) })
	Listen("build.deleted", func(_ context.Context, _ interface{}) { got = append(got, "wrong") })

	Fire(context.Background(), "build.item_added", "x")

	assert.Equal(t, []string{"a:x", "b:x"}, got)
	assert.True(t, HasListeners("build.deleted"))
	assert.False(t, HasListeners("nothing"))
}
