package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/addrlens/addressview"
	"github.com/tranvictor/addrlens/config"
	"github.com/tranvictor/addrlens/db"
	"github.com/tranvictor/addrlens/metrics"
	"github.com/tranvictor/addrlens/navigation"
	"github.com/tranvictor/addrlens/networks"
	"github.com/tranvictor/addrlens/ui"
	"github.com/tranvictor/addrlens/util/addrbook"
)

// locationFromArgs builds the location from "<identifier>[/suffix]" and
// --query k=v pairs.
func locationFromArgs(arg string, queries []string) (navigation.Location, error) {
	loc, err := navigation.ParseLocation(arg)
	if err != nil {
		return navigation.Location{}, err
	}
	for _, q := range queries {
		key, value, found := strings.Cut(q, "=")
		if !found || key == "" {
			return navigation.Location{}, fmt.Errorf("query %q is not in k=v form", q)
		}
		loc = loc.WithParam(key, value)
	}
	return loc, nil
}

// showAddress navigates view to loc, shows progress until it settles and
// renders the result, or prints it as json when asJSON is set.
func showAddress(ctx context.Context, u ui.UI, view *addressview.View, history *navigation.History, loc navigation.Location, labels addrbook.AddressResolver, asJSON bool) error {
	updates, unsubscribe := view.Subscribe()
	defer unsubscribe()

	view.Navigate(loc)
	stop := u.Spinner(fmt.Sprintf("Resolving %s", loc.Identifier))
	defer func() { stop() }()

	stage := addressview.Loading
	for {
		select {
		case snap := <-updates:
			if snap.Generation == 0 {
				continue
			}
			if state := snap.State(); state != stage && !snap.Settled {
				stage = state
				if state == addressview.ContractLoading {
					stop()
					stop = u.Spinner("Looking for verified source")
				}
			}
			if !snap.Settled {
				continue
			}
			stop()
			if asJSON {
				return writeSnapshotJSON(u, snap)
			}
			if history.Replacements() > 0 {
				u.Info("Location: %s", history.Current())
			}
			renderSnapshot(u, snap, labels)
			return nil
		case <-ctx.Done():
			stop()
			snap := view.Snapshot()
			renderSnapshot(u, snap, labels)
			return fmt.Errorf("gave up waiting for %s: %w", loc.Identifier, ctx.Err())
		}
	}
}

// suggestLabels lists labels close to an identifier that did not resolve.
func suggestLabels(u ui.UI, labels *db.LabelDB, identifier string) {
	matches, _ := labels.Search(identifier)
	if len(matches) == 0 {
		return
	}
	if len(matches) > 3 {
		matches = matches[:3]
	}
	u.Info("Did you mean:")
	indented := u.Indent()
	for _, m := range matches {
		indented.Info("%s (%s)", m.Name, m.Address.Hex())
	}
}

var addressCmd = &cobra.Command{
	Use:     "address <address or name>[/suffix]",
	Aliases: []string{"addr", "a"},
	Short:   "Resolve an address or name and show its account or contract details",
	Long: `Resolve an address or a name, check whether it has code and show the
verified source metadata of contracts. Names are ENS names or labels of your
address book. Everything after the first "/" is kept as is, so are --query
pairs, both survive the rewrite of the location to the checksummed address.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := locationFromArgs(args[0], config.Queries)
		if err != nil {
			return err
		}
		p, err := newPipeline(networks.CurrentNetwork(), appLogger, metrics.New(""))
		if err != nil {
			return err
		}
		history := navigation.NewHistory(loc)
		view := p.newView(history)

		// the name lookup, the code check and the metadata walk each have
		// their own timeout
		ctx, cancel := context.WithTimeout(cmd.Context(), 3*config.LookupTimeout)
		defer cancel()
		u := ui.NewTerminalUI()
		if err := showAddress(ctx, u, view, history, loc, addrbook.NewDefault(p.labels), config.JSONOutput); err != nil {
			return err
		}
		if !config.JSONOutput && view.Snapshot().State() == addressview.NotFound {
			suggestLabels(u, p.labels, loc.Identifier)
		}
		return nil
	},
}

func init() {
	addressCmd.Flags().StringArrayVarP(&config.Queries, "query", "q", nil, "query parameter k=v kept on the location, repeatable")
	addressCmd.Flags().BoolVar(&config.JSONOutput, "json", false, "print the settled lookup as json")
	rootCmd.AddCommand(addressCmd)
}
