package core

import (
	"testing"

	"github.com/mus-format/mus-go/varint"
	"github.com/stretchr/testify/assert"
)

func TestUnmarshalVectorRejectsCorruptLength(t *testing.T) {
	t.Run("length exceeds available bytes", func(t *testing.T) {
		bs := make([]byte, 8)
		varint.Int.Marshal(1_000_000, bs)

		_, _, err := unmarshalVector(bs)
		assert.ErrorIs(t, err, ErrInvalidVectorLength)
	})

	t.Run("negative length", func(t *testing.T) {
		bs := make([]byte, 8)
		varint.Int.Marshal(-1, bs)

		_, _, err := unmarshalVector(bs)
		assert.ErrorIs(t, err, ErrInvalidVectorLength)
	})
}
