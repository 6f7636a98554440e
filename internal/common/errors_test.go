package common

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Unwrap(t *testing.T) {
	err := NewIOError("open", "/tmp/missing", fs.ErrNotExist)

	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotErrorIs(t, err, ErrParse)
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "io with path",
			err:  NewIOError("open", "a.bin", fs.ErrNotExist),
			want: "i/o error: open a.bin: file does not exist",
		},
		{
			name: "parse with path and line",
			err:  NewParseError("hashes.lzjd", 3, errors.New("bad line")),
			want: "parse error: decode digest record hashes.lzjd:3: bad line",
		},
		{
			name: "parse with line only",
			err:  NewParseError("", 7, errors.New("bad line")),
			want: "parse error: decode digest record line 7: bad line",
		},
		{
			name: "kind only",
			err:  &Error{Kind: ErrArity},
			want: "arity error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindName(t *testing.T) {
	assert.Equal(t, "IOError", KindName(NewIOError("read", "x", errors.New("boom"))))
	assert.Equal(t, "ParseError", KindName(NewParseError("", 0, errors.New("boom"))))
	assert.Equal(t, "ArityError", KindName(&Error{Kind: ErrArity}))
	assert.Equal(t, "PoolInitError", KindName(&Error{Kind: ErrPoolInit}))
	assert.Equal(t, "UsageError", KindName(&Error{Kind: ErrUsage}))
	assert.Equal(t, "error", KindName(errors.New("plain")))
}
