package extract

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentError(t *testing.T) {
	t.Run("defaults reason to journal text", func(t *testing.T) {
		err := Fail(IdentifierNotFound, "")

		assert.Equal(t, "PO not found", err.Error())
		assert.Equal(t, "PO not found", Reason(err))
		assert.ErrorIs(t, err, ErrIdentifierNotFound)
		assert.NotErrorIs(t, err, ErrNoItems)

		missing := Fail(OrderNumberMissing, "")
		assert.Equal(t, "Order No not found", Reason(missing))
		assert.ErrorIs(t, missing, ErrOrderNumberMissing)
	})

	t.Run("sentinel messages are lowercase", func(t *testing.T) {
		for kind, sentinel := range sentinels {
			msg := sentinel.Error()
			assert.Equal(t, strings.ToLower(msg[:1]), msg[:1], kind)
			assert.NotEmpty(t, reasons[kind], kind)
		}
	})

	t.Run("keeps cause reachable", func(t *testing.T) {
		cause := errors.New("sheet locked")
		err := fmt.Errorf("append: %w", Fail(SaveFailed, "").Wrap(cause))

		assert.ErrorIs(t, err, ErrSaveFailed)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "could not save", Reason(err))
		assert.Equal(t, SaveFailed, KindOf(err))
	})

	t.Run("plain errors pass through", func(t *testing.T) {
		err := errors.New("boom")
		assert.Equal(t, "boom", Reason(err))
		assert.Equal(t, Kind(""), KindOf(err))
		assert.Equal(t, "", Reason(nil))
	})
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{"flattens newlines", "PO Number\n123-456\r\nitem", 500, "PO Number | 123-456 | item"},
		{"cuts by rune", "Đơn hàng số", 4, "Đơn "},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preview(tt.text, tt.n))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 50))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
}
