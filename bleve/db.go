// Package bleve indexes the label book for full text search.
package bleve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve"
	_ "github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/analysis/lang/en"
	"github.com/blevesearch/bleve/mapping"
	"go.uber.org/zap"

	"github.com/tranvictor/addrlens/util/logger"
)

const BATCH_SIZE = 1000

type AddressDesc struct {
	Address string `json:"address"`
	Desc    string `json:"desc"`
}

// BleveDB is an in-memory index over address labels. It is rebuilt on
// every start, the label files are small.
type BleveDB struct {
	index bleve.Index
	log   *zap.Logger
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = en.AnalyzerName

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = "keyword"

	defaultMapping := bleve.NewDocumentMapping()
	defaultMapping.AddFieldMappingsAt("desc", textFieldMapping)
	defaultMapping.AddFieldMappingsAt("address", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", defaultMapping)

	indexMapping.TypeField = "type"
	indexMapping.DefaultAnalyzer = "en"

	return indexMapping
}

// NewBleveDB indexes labels, a map from address to label.
func NewBleveDB(labels map[string]string, l *zap.Logger) (*BleveDB, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}
	db := &BleveDB{index: index, log: logger.OrNop(l).Named("bleve")}
	if err := db.indexAddresses(labels); err != nil {
		index.Close()
		return nil, err
	}
	return db, nil
}

func (db *BleveDB) Close() error {
	return db.index.Close()
}

func (db *BleveDB) indexAddresses(labels map[string]string) error {
	batch := db.index.NewBatch()
	for addr, desc := range labels {
		key := strings.ToLower(addr)
		if err := batch.Index(key, AddressDesc{Address: key, Desc: desc}); err != nil {
			return err
		}
		if batch.Size() >= BATCH_SIZE {
			if err := db.index.Batch(batch); err != nil {
				return err
			}
			batch = db.index.NewBatch()
		}
	}
	// flush the last batch
	if batch.Size() > 0 {
		if err := db.index.Batch(batch); err != nil {
			return err
		}
	}
	db.log.Debug("indexed labels", zap.Int("count", len(labels)))
	return nil
}

// Search matches input as a phrase or, one edit away, as a term. Results
// are best first with scores scaled to integers.
func (db *BleveDB) Search(input string) ([]AddressDesc, []int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return []AddressDesc{}, []int{}, nil
	}
	matchQuery := bleve.NewMatchPhraseQuery(input)
	fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(input))
	fuzzyQuery.Fuzziness = 1
	query := bleve.NewDisjunctionQuery(matchQuery, fuzzyQuery)
	request := bleve.NewSearchRequest(query)
	request.Fields = []string{"address", "desc"}
	searchResults, err := db.index.Search(request)
	if err != nil {
		return nil, nil, fmt.Errorf("label search failed: %w", err)
	}

	results := []AddressDesc{}
	scores := []int{}
	for _, hit := range searchResults.Hits {
		desc, _ := hit.Fields["desc"].(string)
		results = append(results, AddressDesc{Address: hit.ID, Desc: desc})
		scores = append(scores, int(hit.Score*1000000))
	}
	return results, scores, nil
}

// Merge combines result lists, dropping repeated addresses and keeping the
// first occurrence.
func Merge(lists ...[]AddressDesc) []AddressDesc {
	seen := map[string]bool{}
	result := []AddressDesc{}
	for _, list := range lists {
		for _, a := range list {
			key := strings.ToLower(a.Address)
			if seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, a)
		}
	}
	return result
}

// SortByAddress is used for stable output when scores tie.
func SortByAddress(results []AddressDesc) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Address < results[j].Address
	})
}
