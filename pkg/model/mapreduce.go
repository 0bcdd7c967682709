package model

import "fmt"

const (
	LanguageJavaScript = "javascript"
	LanguageTengo      = "tengo"
)

// MapReduceQuery describes a map/reduce run over a collection. Map
// calls emit(key, value) for every document, Reduce is either a
// builtin (_sum, _count, _stats) or a function(key, values).
type MapReduceQuery struct {
	Map      string         `json:"map"`
	Reduce   string         `json:"reduce"`
	Language string         `json:"language,omitempty"`
	Query    *SelectorGroup `json:"query,omitempty"`
	Out      string         `json:"out,omitempty"`
}

func (q MapReduceQuery) Validate() error {
	if q.Map == "" {
		return fmt.Errorf("map function is required")
	}
	if q.Reduce == "" {
		return fmt.Errorf("reduce function is required")
	}
	switch q.Language {
	case "", LanguageJavaScript, LanguageTengo:
	default:
		return fmt.Errorf("language %q unknown", q.Language)
	}
	return nil
}

type MapReduceStats struct {
	Input  int `json:"input"`
	Emit   int `json:"emit"`
	Output int `json:"output"`
}

type MapReduceResult struct {
	Rows  []*Document    `json:"-"`
	Out   string         `json:"out,omitempty"`
	Stats MapReduceStats `json:"counts"`
}
