package layered

// placement holds coordinates indexed like graph.names.
// sequence is the output order: by layer, then input order.
type placement struct {
	x, y     []float64
	sequence []int
	width    float64
	height   float64
}

func place(g *graph, layers []int, cfg Config) placement {
	maxLayer := 0
	for _, l := range layers {
		maxLayer = max(maxLayer, l)
	}

	rows := make([][]int, maxLayer+1)
	for i, l := range layers {
		rows[l] = append(rows[l], i)
	}

	widest := 1
	for _, row := range rows {
		widest = max(widest, len(row))
	}

	stepX := cfg.NodeWidth + cfg.HGap
	stepY := cfg.NodeHeight + cfg.VGap

	p := placement{
		x:        make([]float64, len(layers)),
		y:        make([]float64, len(layers)),
		sequence: make([]int, 0, len(layers)),
		width:    max(cfg.MinWidth, float64(widest)*stepX-cfg.HGap+2*cfg.Pad),
		height:   float64(maxLayer+1)*stepY - cfg.VGap + 2*cfg.Pad,
	}

	for l, row := range rows {
		rowWidth := float64(len(row))*stepX - cfg.HGap
		startX := (p.width - rowWidth) / 2
		y := cfg.Pad + float64(l)*stepY
		for k, i := range row {
			p.x[i] = startX + float64(k)*stepX
			p.y[i] = y
			p.sequence = append(p.sequence, i)
		}
	}
	return p
}
