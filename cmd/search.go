package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/addrlens/bleve"
	"github.com/tranvictor/addrlens/db"
	"github.com/tranvictor/addrlens/ui"
)

// searchLabels runs the full text search first and fills up with fuzzy
// matches.
func searchLabels(labels *db.LabelDB, input string) ([]bleve.AddressDesc, error) {
	index, err := bleve.NewBleveDB(labels.All(), appLogger)
	if err != nil {
		return nil, err
	}
	defer index.Close()

	textMatches, _, err := index.Search(input)
	if err != nil {
		return nil, err
	}
	fuzzyLabels, _ := labels.Search(input)
	fuzzyMatches := []bleve.AddressDesc{}
	for _, l := range fuzzyLabels {
		fuzzyMatches = append(fuzzyMatches, bleve.AddressDesc{
			Address: strings.ToLower(l.Address.Hex()),
			Desc:    l.Name,
		})
	}
	results := bleve.Merge(textMatches, fuzzyMatches)
	if len(results) > db.MAX_FUZZY_RESULTS {
		results = results[:db.MAX_FUZZY_RESULTS]
	}
	return results, nil
}

func renderSearch(u ui.UI, input string, results []bleve.AddressDesc) {
	if len(results) == 0 {
		u.Warn("No label matches %q", input)
		return
	}
	rows := [][]string{}
	for i, r := range results {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), r.Address, r.Desc})
	}
	u.Table([]string{"#", "Address", "Label"}, rows)
}

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find at max 10 labeled addresses matching the text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := strings.Join(args, " ")
		results, err := searchLabels(loadLabels(appLogger), input)
		if err != nil {
			return err
		}
		renderSearch(ui.NewTerminalUI(), input, results)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
