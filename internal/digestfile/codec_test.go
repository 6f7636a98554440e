package digestfile

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/isseis/go-lzjd/internal/common"
	"github.com/isseis/go-lzjd/internal/lzjd"
	sinktesting "github.com/isseis/go-lzjd/internal/sink/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digestOf(t *testing.T, content string) *lzjd.Digest {
	t.Helper()
	d, err := lzjd.Build(strings.NewReader(content), &lzjd.Murmur3{})
	require.NoError(t, err)
	return d
}

func TestEncode(t *testing.T) {
	d := digestOf(t, "hello hello hello")
	line := Encode(Record{Digest: d, Name: "dir/sample.bin"})

	assert.Equal(t, "lzjd:dir/sample.bin:"+d.String(), line)
	assert.NotContains(t, line, "\n")
}

func TestDecode_RoundTrip(t *testing.T) {
	d := digestOf(t, strings.Repeat("the quick brown fox ", 200))

	names := []string{
		"plain.exe",
		"/abs/path/to/file",
		`C:\Windows\System32\calc.exe`,
		"a:b:c",
		"x",
		"name with spaces",
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			rec, err := Decode(Encode(Record{Digest: d, Name: name}))
			require.NoError(t, err)
			assert.Equal(t, name, rec.Name)
			assert.Equal(t, 100, int(d.Similarity(rec.Digest)*100+0.5))
			assert.Equal(t, d.String(), rec.Digest.String())
		})
	}
}

func TestDecode_TrimsWhitespace(t *testing.T) {
	d := digestOf(t, "abcabcabc")
	rec, err := Decode("  " + Encode(Record{Digest: d, Name: "f"}) + "\r\n")
	require.NoError(t, err)
	assert.Equal(t, "f", rec.Name)
}

func TestDecode_Errors(t *testing.T) {
	valid := digestOf(t, "payload payload").String()

	tests := []struct {
		name    string
		line    string
		wantErr error
	}{
		{name: "empty name", line: "lzjd::" + valid, wantErr: ErrMalformedLine},
		{name: "no colon after prefix", line: "lzjd:nameonly", wantErr: ErrMalformedLine},
		{name: "no colon at all", line: "garbage", wantErr: ErrMalformedLine},
		{name: "wrong prefix", line: "sdbf:name:" + valid, wantErr: ErrMalformedLine},
		{name: "short prefix", line: "lz:a:" + valid, wantErr: ErrMalformedLine},
		{name: "invalid base64", line: "lzjd:name:!!!!", wantErr: lzjd.ErrInvalidEncoding},
		{name: "truncated payload", line: "lzjd:name:AAAA", wantErr: lzjd.ErrInvalidLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.line)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrParse)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRead(t *testing.T) {
	a := digestOf(t, "first file contents")
	b := digestOf(t, "second file contents")

	input := "\n" + Encode(Record{Digest: a, Name: "a"}) + "\n   \n" +
		Encode(Record{Digest: b, Name: "b:with:colons"}) + "\n\n"

	records, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Name)
	assert.Equal(t, "b:with:colons", records[1].Name)
	assert.Equal(t, b.String(), records[1].Digest.String())
}

func TestRead_Empty(t *testing.T) {
	records, err := Read(strings.NewReader("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRead_OversizedLineIsParseError(t *testing.T) {
	d := digestOf(t, "contents")
	input := Encode(Record{Digest: d, Name: "ok"}) + "\n" +
		"lzjd:big:" + strings.Repeat("A", maxLineSize) + "\n"

	records, err := Read(strings.NewReader(input))
	assert.Nil(t, records)
	require.ErrorIs(t, err, common.ErrParse)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
	assert.NotErrorIs(t, err, common.ErrIO)

	var perr *common.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
}

func TestRead_MalformedLineAbortsEverything(t *testing.T) {
	d := digestOf(t, "contents")
	input := Encode(Record{Digest: d, Name: "ok1"}) + "\n" +
		Encode(Record{Digest: d, Name: "ok2"}) + "\n" +
		"lzjd::" + d.String() + "\n" +
		Encode(Record{Digest: d, Name: "ok3"}) + "\n"

	records, err := Read(strings.NewReader(input))
	require.Error(t, err)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, common.ErrParse)

	var perr *common.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Line)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	d := digestOf(t, "stored digest")

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "hashes.lzjd")
		require.NoError(t, os.WriteFile(path, []byte(Encode(Record{Digest: d, Name: "s"})+"\n"), 0o644))

		records, err := ReadFile(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "s", records[0].Name)
	})

	t.Run("parse error names the file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.lzjd")
		require.NoError(t, os.WriteFile(path, []byte("not a record\n"), 0o644))

		_, err := ReadFile(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrParse)
		assert.Contains(t, err.Error(), path+":1")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "nope.lzjd"))
		assert.ErrorIs(t, err, common.ErrIO)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestWrite(t *testing.T) {
	a := digestOf(t, "aaa")
	b := digestOf(t, "bbb")
	out := &sinktesting.MemorySink{}

	require.NoError(t, Write(out, []Record{{Digest: a, Name: "a"}, {Digest: b, Name: "b"}}))
	assert.Equal(t, []string{
		Encode(Record{Digest: a, Name: "a"}),
		Encode(Record{Digest: b, Name: "b"}),
	}, out.Lines())
}

func TestWrite_StopsOnError(t *testing.T) {
	d := digestOf(t, "x")
	out := &sinktesting.MockSink{}
	boom := errors.New("boom")
	out.On("WriteLine", Encode(Record{Digest: d, Name: "first"})).Return(boom).Once()

	err := Write(out, []Record{{Digest: d, Name: "first"}, {Digest: d, Name: "second"}})
	assert.Same(t, boom, err)
	out.AssertExpectations(t)
}

func TestWrite_ThenRead(t *testing.T) {
	d := digestOf(t, "round trip through a buffer")
	var buf bytes.Buffer
	for _, name := range []string{"x", "y:z"} {
		buf.WriteString(Encode(Record{Digest: d, Name: name}) + "\n")
	}
	records, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "y:z", records[1].Name)
}
