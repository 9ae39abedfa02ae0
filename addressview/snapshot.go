package addressview

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/addrlens/identity"
	"github.com/tranvictor/addrlens/navigation"
	"github.com/tranvictor/addrlens/sourcemeta"
)

const APP_NAME = "addrlens"

type PageState int

const (
	Loading PageState = iota
	NotFound
	Account
	ContractLoading
	ContractUnverified
	ContractVerified
	CodeUnavailable
)

func (s PageState) String() string {
	switch s {
	case Loading:
		return "loading"
	case NotFound:
		return "not found"
	case Account:
		return "account"
	case ContractLoading:
		return "contract loading"
	case ContractUnverified:
		return "contract unverified"
	case ContractVerified:
		return "contract verified"
	case CodeUnavailable:
		return "code unavailable"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s PageState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

type CodeStatus struct {
	Pending bool
	HasCode bool
	Err     error
}

// Tab indicators.
const (
	IndicatorNone       = ""
	IndicatorLoading    = "loading"
	IndicatorUnverified = "unverified"
	IndicatorVerified   = "verified"
)

type Tab struct {
	Name      string `json:"name"`
	Indicator string `json:"indicator,omitempty"`
}

// Snapshot is a read-only picture of one navigation at one point in time.
type Snapshot struct {
	Session    string
	Generation uint64
	Location   navigation.Location
	// Canonical is Location naming the checksum address, set once resolved.
	Canonical navigation.Location

	Network       string
	Testnet       bool
	Faucets       []string
	SupportsNames bool

	ResolutionPending bool
	Resolution        identity.Result
	Code              CodeStatus
	Metadata          sourcemeta.Record
	Settled           bool
}

func (s Snapshot) Identifier() string {
	return s.Location.Identifier
}

// Address is the resolved address, ok is false until there is one.
func (s Snapshot) Address() (common.Address, bool) {
	if s.ResolutionPending || s.Resolution.Err != nil {
		return common.Address{}, false
	}
	return s.Resolution.Address, true
}

func (s Snapshot) State() PageState {
	switch {
	case s.ResolutionPending:
		return Loading
	case s.Resolution.Err != nil:
		return NotFound
	case s.Code.Pending:
		return Loading
	case s.Code.Err != nil:
		return CodeUnavailable
	case !s.Code.HasCode:
		return Account
	}
	switch s.Metadata.Status {
	case sourcemeta.Found:
		return ContractVerified
	case sourcemeta.NotFound:
		return ContractUnverified
	}
	return ContractLoading
}

// Title is the document title. Names are shown as typed, literal addresses
// in checksum form.
func (s Snapshot) Title() string {
	addr, resolved := s.Address()
	if !resolved || s.Resolution.IsName {
		return fmt.Sprintf("Address %s | %s", s.Identifier(), APP_NAME)
	}
	return fmt.Sprintf("Address %s | %s", addr.Hex(), APP_NAME)
}

// Tabs lists the visible tabs. The contract tab only shows for addresses
// with code.
func (s Snapshot) Tabs() []Tab {
	tabs := []Tab{{Name: "Overview"}}
	if _, resolved := s.Address(); resolved && !s.Code.Pending && s.Code.Err == nil && s.Code.HasCode {
		contract := Tab{Name: "Contract", Indicator: IndicatorLoading}
		switch s.Metadata.Status {
		case sourcemeta.Found:
			contract.Indicator = IndicatorVerified
		case sourcemeta.NotFound:
			contract.Indicator = IndicatorUnverified
		}
		tabs = append(tabs, contract)
	}
	return append(tabs, Tab{Name: "Token Approvals"})
}

// ContractMetadata is the metadata record for the address, NotFound when the
// address is known to have no code.
func (s Snapshot) ContractMetadata() sourcemeta.Record {
	if !s.Code.Pending && s.Code.Err == nil && !s.Code.HasCode {
		return sourcemeta.Record{Status: sourcemeta.NotFound}
	}
	return s.Metadata
}

// NotFoundMessage explains a failed resolution.
func (s Snapshot) NotFoundMessage() string {
	if s.SupportsNames {
		return fmt.Sprintf(
			"%s is neither a valid address nor a name registered on %s",
			s.Identifier(), s.Network,
		)
	}
	return fmt.Sprintf(
		"%s is not a valid address, and %s does not support names",
		s.Identifier(), s.Network,
	)
}

type snapshotJSON struct {
	Session    string            `json:"session"`
	Generation uint64            `json:"generation"`
	Location   string            `json:"location"`
	Canonical  string            `json:"canonical_location,omitempty"`
	Identifier string            `json:"identifier"`
	Title      string            `json:"title"`
	State      PageState         `json:"state"`
	Network    string            `json:"network"`
	Faucets    []string          `json:"faucets,omitempty"`
	Address    string            `json:"address,omitempty"`
	IsName     bool              `json:"is_name"`
	HasCode    *bool             `json:"has_code,omitempty"`
	Tabs       []Tab             `json:"tabs"`
	Metadata   sourcemeta.Record `json:"metadata"`
	Settled    bool              `json:"settled"`
	Error      string            `json:"error,omitempty"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{
		Session:    s.Session,
		Generation: s.Generation,
		Location:   s.Location.String(),
		Identifier: s.Identifier(),
		Title:      s.Title(),
		State:      s.State(),
		Network:    s.Network,
		IsName:     s.Resolution.IsName,
		Tabs:       s.Tabs(),
		Metadata:   s.ContractMetadata(),
		Settled:    s.Settled,
	}
	if s.Testnet {
		out.Faucets = s.Faucets
	}
	if addr, resolved := s.Address(); resolved {
		out.Address = addr.Hex()
		out.Canonical = s.Canonical.String()
	}
	if !s.Code.Pending && s.Code.Err == nil && !s.ResolutionPending && s.Resolution.Err == nil {
		hasCode := s.Code.HasCode
		out.HasCode = &hasCode
	}
	switch {
	case s.Resolution.Err != nil:
		out.Error = s.NotFoundMessage()
	case s.Code.Err != nil:
		out.Error = s.Code.Err.Error()
	}
	return json.Marshal(out)
}
