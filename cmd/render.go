package cmd

import (
	"encoding/json"
	"strings"

	"github.com/tranvictor/addrlens/addressview"
	"github.com/tranvictor/addrlens/sourcemeta"
	"github.com/tranvictor/addrlens/ui"
	"github.com/tranvictor/addrlens/util/addrbook"
)

func tabsLine(u ui.UI, tabs []addressview.Tab) string {
	parts := []string{}
	for _, tab := range tabs {
		switch tab.Indicator {
		case addressview.IndicatorVerified:
			parts = append(parts, tab.Name+" "+u.Style(ui.StyledText{Text: "✓", Severity: ui.SeveritySuccess}))
		case addressview.IndicatorUnverified:
			parts = append(parts, tab.Name+" "+u.Style(ui.StyledText{Text: "?", Severity: ui.SeverityWarn}))
		case addressview.IndicatorLoading:
			parts = append(parts, tab.Name+" "+u.Style(ui.StyledText{Text: "…", Severity: ui.SeverityWarn}))
		default:
			parts = append(parts, tab.Name)
		}
	}
	return strings.Join(parts, " | ")
}

func accountType(state addressview.PageState) ui.StyledText {
	switch state {
	case addressview.Account:
		return ui.StyledText{Text: "account", Severity: ui.SeverityInfo}
	case addressview.ContractVerified:
		return ui.StyledText{Text: "contract, verified", Severity: ui.SeveritySuccess}
	case addressview.ContractUnverified:
		return ui.StyledText{Text: "contract, unverified source", Severity: ui.SeverityWarn}
	case addressview.ContractLoading:
		return ui.StyledText{Text: "contract", Severity: ui.SeverityInfo}
	case addressview.CodeUnavailable:
		return ui.StyledText{Text: "unknown, code unavailable", Severity: ui.SeverityError}
	}
	return ui.StyledText{Text: state.String(), Severity: ui.SeverityWarn}
}

// renderSnapshot prints one snapshot of the address page.
func renderSnapshot(u ui.UI, snap addressview.Snapshot, labels addrbook.AddressResolver) {
	u.Section(snap.Title())

	state := snap.State()
	if state == addressview.NotFound {
		u.Error("%s", snap.NotFoundMessage())
		return
	}
	if state == addressview.Loading {
		u.Warn("Still looking %s up", snap.Identifier())
		return
	}

	addr, _ := snap.Address()
	labeled := labels.Resolve(addr.Hex())
	severity := ui.SeverityError
	if labeled.Known() {
		severity = ui.SeveritySuccess
	}
	rows := [][2]string{
		{"Address", addr.Hex()},
		{"Label", u.Style(ui.StyledText{Text: labeled.Desc, Severity: severity})},
	}
	if snap.Resolution.IsName {
		rows = append(rows, [2]string{"ENS", snap.Identifier()})
	}
	rows = append(rows,
		[2]string{"Network", snap.Network},
		[2]string{"Type", u.Style(accountType(state))},
		[2]string{"Tabs", tabsLine(u, snap.Tabs())},
	)
	u.KeyValue(rows)

	if snap.Testnet && len(snap.Faucets) > 0 {
		u.Info("Faucets:")
		for _, faucet := range snap.Faucets {
			u.Indent().Info("%s", faucet)
		}
	}

	switch state {
	case addressview.CodeUnavailable:
		u.Critical("Couldn't check whether %s has code: %s", addr.Hex(), snap.Code.Err)
	case addressview.ContractLoading:
		u.Warn("Looking for verified source...")
	case addressview.ContractUnverified:
		renderUnverified(u, snap.ContractMetadata())
	case addressview.ContractVerified:
		renderMetadata(u, snap.ContractMetadata().Payload)
	}
}

func renderUnverified(u ui.UI, record sourcemeta.Record) {
	u.Warn("Source code is not verified")
	if record.Failed() {
		u.Indent().Error("Some backends could not be reached: %s", record.Err)
	}
}

func renderMetadata(u ui.UI, payload *sourcemeta.Payload) {
	u.Section("Contract")
	rows := [][2]string{
		{"Name", payload.ContractName},
		{"Compiler", payload.CompilerVersion},
		{"Verified by", payload.Backend},
	}
	if payload.Match != "" {
		rows = append(rows, [2]string{"Match", payload.Match})
	}
	if payload.Language != "" {
		rows = append(rows, [2]string{"Language", payload.Language})
	}
	u.KeyValue(rows)
	if len(payload.Sources) > 0 {
		u.Info("Sources (%d):", len(payload.Sources))
		sources := u.Indent()
		for _, src := range payload.Sources {
			sources.Info("%s", src)
		}
	}
	if len(payload.ABI) > 0 {
		u.Info("ABI: %d bytes", len(payload.ABI))
	}
}

// writeSnapshotJSON prints snap the way the http service answers it.
func writeSnapshotJSON(u ui.UI, snap addressview.Snapshot) error {
	content, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	_, err = u.Writer().Write(append(content, '\n'))
	return err
}
