package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	lenscommon "github.com/tranvictor/addrlens/common"
	"github.com/tranvictor/addrlens/ui"
	"github.com/tranvictor/addrlens/util/addrbook"
)

func whois(u ui.UI, labels addrbook.AddressResolver, args []string) {
	found := false
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			if !lenscommon.IsLiteralAddress(field) {
				continue
			}
			found = true
			addr := labels.Resolve(field)
			if addr.Known() {
				u.Info("%s: %s", addr.Address, u.Style(ui.StyledText{Text: addr.Desc, Severity: ui.SeveritySuccess}))
			} else {
				u.Info("%s: %s", addr.Address, u.Style(ui.StyledText{Text: "not found", Severity: ui.SeverityError}))
			}
		}
	}
	if !found {
		u.Error("Couldn't find any addresses in the params")
	}
}

var whoisCmd = &cobra.Command{
	Use:   "whois <addresses...>",
	Short: "Show the labels of one or multiple addresses",
	Run: func(cmd *cobra.Command, args []string) {
		whois(ui.NewTerminalUI(), addrbook.NewDefault(loadLabels(appLogger)), args)
	},
}

func init() {
	rootCmd.AddCommand(whoisCmd)
}
