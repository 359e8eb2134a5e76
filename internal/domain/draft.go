package domain

import (
	"crypto/sha256"
	"fmt"
)

// EdgeDraft is the endpoint tuple a commit would create: the output of
// candidate resolution and the input of the connect commands. The zero
// value is not a valid draft.
type EdgeDraft struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Equal reports whether two drafts name the same endpoint tuple.
func (d EdgeDraft) Equal(o EdgeDraft) bool { return d == o }

// IsPin reports whether the draft attaches to a mini-pin on either end.
func (d EdgeDraft) IsPin() bool { return d.SourceHandle != "" || d.TargetHandle != "" }

// DigestID derives the deterministic edge id for the tuple. Direction
// matters: edges are drawn left to right, so (a,b) and (b,a) are distinct.
func (d EdgeDraft) DigestID() string {
	key := fmt.Sprintf("%s|%s|%s|%s", d.Source, d.Target, d.SourceHandle, d.TargetHandle)
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", hash[:8])
}
