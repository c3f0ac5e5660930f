package domain

// Definition is the validated, immutable-per-tick description of the graph:
// the node configurations plus grouping and tag metadata. Structural edits
// replace the whole definition; it is never mutated in place.
type Definition struct {
	Nodes  []NodeConfig        `json:"nodes"`
	Groups map[string][]string `json:"groups,omitempty"` // group name -> node ids
	Tags   map[string][]string `json:"tags,omitempty"`   // node id -> tags
}

// Node returns the configuration for the given id, if present.
func (d *Definition) Node(id string) (NodeConfig, bool) {
	for _, n := range d.Nodes {
		if n.NodeID() == id {
			return n, true
		}
	}
	return nil, false
}

// Clone returns a deep copy suitable for snapshots.
func (d *Definition) Clone() *Definition {
	if d == nil {
		return nil
	}
	next := &Definition{
		Nodes: make([]NodeConfig, len(d.Nodes)),
	}
	for i, n := range d.Nodes {
		next.Nodes[i] = n.Clone()
	}
	if d.Groups != nil {
		next.Groups = make(map[string][]string, len(d.Groups))
		for k, v := range d.Groups {
			next.Groups[k] = append([]string(nil), v...)
		}
	}
	if d.Tags != nil {
		next.Tags = make(map[string][]string, len(d.Tags))
		for k, v := range d.Tags {
			next.Tags[k] = append([]string(nil), v...)
		}
	}
	return next
}
