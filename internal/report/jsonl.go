package report

import (
	json "github.com/goccy/go-json"
	"github.com/isseis/go-lzjd/internal/similarity"
	"github.com/isseis/go-lzjd/internal/sink"
)

type jsonResult struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Score int    `json:"score"`
}

func writeJSONL(out sink.Sink, results []similarity.Result) error {
	for _, r := range results {
		payload, err := json.Marshal(jsonResult{A: r.NameA, B: r.NameB, Score: r.Score})
		if err != nil {
			return err
		}
		if err := out.WriteLine(string(payload)); err != nil {
			return err
		}
	}
	return nil
}
