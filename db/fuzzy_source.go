package db

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

const MAX_FUZZY_RESULTS = 10

// FuzzySource lets sahilm/fuzzy match against "label_address" strings.
type FuzzySource []Label

func (fs FuzzySource) Len() int {
	return len(fs)
}

func (fs FuzzySource) String(i int) string {
	return fmt.Sprintf("%s_%s", strings.Replace(fs[i].Name, " ", "_", -1), strings.ToLower(fs[i].Address.Hex()))
}

func (db *LabelDB) FuzzySource() FuzzySource {
	return FuzzySource(db.Labels())
}

// Search returns the best fuzzy matches for input together with their
// scores, best first.
func (db *LabelDB) Search(input string) ([]Label, []int) {
	source := db.FuzzySource()
	matches := fuzzy.FindFrom(strings.Replace(strings.TrimSpace(input), " ", "_", -1), source)
	result := []Label{}
	scores := []int{}
	for i := 0; i < MAX_FUZZY_RESULTS && i < len(matches); i++ {
		result = append(result, source[matches[i].Index])
		scores = append(scores, matches[i].Score)
	}
	return result, scores
}
