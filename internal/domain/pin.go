package domain

// MiniPinKind distinguishes a layer's inbound and outbound pin panels.
type MiniPinKind string

const (
	MiniPinStarting MiniPinKind = "starting"
	MiniPinEnding   MiniPinKind = "ending"
)

// MiniPin is an aggregated connection point on a layer node, distinct from a
// node's primary input/output pin. Connected gates candidacy: a connected
// pin is never offered as a snap target. ConnectionIDs carries the edges
// already attached, used to skip pins already linked to a specific node.
type MiniPin struct {
	ID            string      `json:"id"`
	Kind          MiniPinKind `json:"kind"`
	Ordinal       int         `json:"ordinal"`
	ConnectionIDs []string    `json:"connectionIds,omitempty"`
	Connected     bool        `json:"isConnected"`
}

// MiniPins groups a layer's pins by kind, each list ordered by ordinal.
type MiniPins struct {
	Starting []MiniPin `json:"starting"`
	Ending   []MiniPin `json:"ending"`
}
