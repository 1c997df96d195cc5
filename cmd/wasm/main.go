//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"time"

	"vsm/internal/adapter/cache"
	"vsm/internal/adapter/memstore"
	"vsm/internal/domain"
	"vsm/internal/logging"
	"vsm/internal/usecase"
)

var (
	store  *memstore.MemoryStore
	loader *usecase.LoadUseCase
	ranker *usecase.RankUseCase
	dirty  bool
)

func init() {
	store = memstore.NewMemoryStore()
	logger := logging.Discard()
	loader = usecase.NewLoadUseCase(store, nil, logger)
	ranker = usecase.NewRankUseCase(store, cache.NewQueryCache(64, time.Minute), nil, logger)
	dirty = true
}

func main() {
	c := make(chan struct{})

	js.Global().Set("vsmAdd", js.FuncOf(addDocument))
	js.Global().Set("vsmRemove", js.FuncOf(removeDocument))
	js.Global().Set("vsmRank", js.FuncOf(rankDocuments))
	js.Global().Set("vsmStats", js.FuncOf(getStats))

	<-c
}

func addDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: vsmAdd(id, text)")
	}

	id := args[0].String()
	if err := loader.AddText(id, args[1].String()); err != nil {
		return makeError(err.Error())
	}
	dirty = true

	return makeResult(map[string]interface{}{
		"success": true,
		"id":      id,
	})
}

func removeDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: vsmRemove(id)")
	}

	if err := loader.Remove(args[0].String()); err != nil {
		return makeError(err.Error())
	}
	dirty = true

	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func rankDocuments(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: vsmRank(query, [limit])")
	}

	query := args[0].String()
	opts := domain.RankOptions{}
	if len(args) > 1 {
		opts.Limit = args[1].Int()
	}

	if err := refresh(); err != nil {
		return makeError("index build failed: " + err.Error())
	}

	results, err := ranker.Rank(query, opts)
	if err != nil {
		return makeError("rank failed: " + err.Error())
	}
	if results == nil {
		results = []domain.ScoredDocument{}
	}

	return makeResult(map[string]interface{}{
		"results": results,
		"query":   query,
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	if err := refresh(); err != nil {
		return makeError("index build failed: " + err.Error())
	}

	stats := ranker.Stats()
	docs, _ := store.ListDocs()

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}

	return makeResult(map[string]interface{}{
		"documents": stats.Documents,
		"terms":     stats.Terms,
		"ids":       ids,
	})
}

// refresh rebuilds the index after the corpus changed. JS callbacks run on
// one goroutine, so dirty needs no lock.
func refresh() error {
	if !dirty {
		return nil
	}
	if _, err := ranker.Reload(); err != nil {
		return err
	}
	dirty = false
	return nil
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
