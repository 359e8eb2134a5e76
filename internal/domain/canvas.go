package domain

import "fmt"

// Canvas is the persistent canvas document: nodes, permanent edges and the
// mini-pin panels of layer nodes. Preview edges are never part of a Canvas;
// they exist only in the live store during a gesture.
type Canvas struct {
	ID    string              `json:"id"`
	Name  string              `json:"name,omitempty"`
	Nodes []Node              `json:"nodes"`
	Edges []Edge              `json:"edges"`
	Pins  map[string]MiniPins `json:"pins,omitempty"`
}

// Problems returns every integrity violation in the document, empty when the
// canvas is sound. The checks mirror what the commit path assumes: unique
// ids, resolvable endpoints, no duplicate connection tuples, pin state in
// step with its connection list.
func (c *Canvas) Problems() []string {
	var out []string

	nodeIDs := make(map[string]bool, len(c.Nodes))
	for i := range c.Nodes {
		n := &c.Nodes[i]
		if n.ID == "" {
			out = append(out, fmt.Sprintf("node %d: empty id", i))
			continue
		}
		if nodeIDs[n.ID] {
			out = append(out, fmt.Sprintf("node %s: duplicate id", n.ID))
		}
		nodeIDs[n.ID] = true
	}

	edgeIDs := make(map[string]bool, len(c.Edges))
	tuples := make(map[EdgeDraft]bool, len(c.Edges))
	for i := range c.Edges {
		e := &c.Edges[i]
		if e.ID == "" {
			out = append(out, fmt.Sprintf("edge %d: empty id", i))
			continue
		}
		if edgeIDs[e.ID] {
			out = append(out, fmt.Sprintf("edge %s: duplicate id", e.ID))
		}
		edgeIDs[e.ID] = true

		if e.IsPreview() {
			out = append(out, fmt.Sprintf("edge %s: preview edge in a document", e.ID))
		}
		if e.Source == e.Target {
			out = append(out, fmt.Sprintf("edge %s: source and target are the same node", e.ID))
		}
		if !nodeIDs[e.Source] {
			out = append(out, fmt.Sprintf("edge %s: unknown source %s", e.ID, e.Source))
		}
		if !nodeIDs[e.Target] {
			out = append(out, fmt.Sprintf("edge %s: unknown target %s", e.ID, e.Target))
		}

		d := e.Draft()
		if tuples[d] {
			out = append(out, fmt.Sprintf("edge %s: duplicate connection %s -> %s", e.ID, e.Source, e.Target))
		}
		tuples[d] = true
	}

	layers := make(map[string]bool)
	for i := range c.Nodes {
		if c.Nodes[i].IsLayer() {
			layers[c.Nodes[i].ID] = true
		}
	}
	for layerID, pins := range c.Pins {
		if !layers[layerID] {
			out = append(out, fmt.Sprintf("pins for %s: not a layer node", layerID))
			continue
		}
		seen := make(map[string]bool)
		check := func(p MiniPin) {
			if seen[p.ID] {
				out = append(out, fmt.Sprintf("pin %s/%s: duplicate id", layerID, p.ID))
			}
			seen[p.ID] = true
			if p.Connected != (len(p.ConnectionIDs) > 0) {
				out = append(out, fmt.Sprintf("pin %s/%s: connected flag out of step with its connections", layerID, p.ID))
			}
			for _, id := range p.ConnectionIDs {
				if !edgeIDs[id] {
					out = append(out, fmt.Sprintf("pin %s/%s: unknown connection %s", layerID, p.ID, id))
				}
			}
		}
		for _, p := range pins.Starting {
			check(p)
		}
		for _, p := range pins.Ending {
			check(p)
		}
	}

	return out
}

// Validate returns an error summarizing the first integrity problem, nil for
// a sound document.
func (c *Canvas) Validate() error {
	problems := c.Problems()
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("canvas %s: %s (%d problems total)", c.ID, problems[0], len(problems))
}
