package layered

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Connector is a drawable edge: a straight segment from the bottom-centre of
// the dependent's box (Start) to the top-centre of the dependency's box (End).
type Connector struct {
	From  string `json:"from" bson:"from"`
	To    string `json:"to" bson:"to"`
	Start Point  `json:"start" bson:"start"`
	End   Point  `json:"end" bson:"end"`
}

// Connectors projects l.Edges onto the canvas using l.Config box sizes.
// Edges whose endpoints have no position are skipped.
func (l Layout[T]) Connectors() []Connector {
	cfg := l.Config.OrDefault()
	pos := make(map[string]Point, len(l.Nodes))
	for _, n := range l.Nodes {
		pos[n.Name] = Point{X: n.X, Y: n.Y}
	}

	out := make([]Connector, 0, len(l.Edges))
	for _, e := range l.Edges {
		from, ok := pos[e.From]
		if !ok {
			continue
		}
		to, ok := pos[e.To]
		if !ok {
			continue
		}
		out = append(out, Connector{
			From:  e.From,
			To:    e.To,
			Start: Point{X: from.X + cfg.NodeWidth/2, Y: from.Y + cfg.NodeHeight},
			End:   Point{X: to.X + cfg.NodeWidth/2, Y: to.Y},
		})
	}
	return out
}
