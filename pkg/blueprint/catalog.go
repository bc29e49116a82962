package blueprint

// Builtin returns the built-in blueprint catalog. Each call returns fresh
// values, so callers may not mutate the registry through them.
func Builtin() []Blueprint {
	return []Blueprint{
		{
			ID:          "tree-plot-20x20",
			Version:     1,
			Name:        "Tree plot 20 x 20 m",
			Description: "Square tree plot split into four 10 x 10 m quadrants.",
			Root: NodeDefinition{
				Type:  Container,
				Shape: Rect(20, 20),
				Role:  "plot",
				Generator: &Generator{
					Kind:         GeneratorGrid,
					Rows:         2,
					Cols:         2,
					RowOrder:     TopToBottom,
					ColOrder:     LeftToRight,
					LabelPattern: "Q{index}",
					Template:     &NodeDefinition{Type: SamplingUnit, Role: "quadrant"},
				},
			},
		},
		{
			ID:          "tree-plot-20x20-nested",
			Version:     1,
			Name:        "Tree plot 20 x 20 m, nested 5 x 5 m units",
			Description: "Four 10 x 10 m quadrants, each split into four 5 x 5 m sampling units.",
			Root: NodeDefinition{
				Type:  Container,
				Shape: Rect(20, 20),
				Role:  "plot",
				Generator: &Generator{
					Kind:         GeneratorGrid,
					Rows:         2,
					Cols:         2,
					LabelPattern: "Q{index}",
					Template: &NodeDefinition{
						Type: Container,
						Role: "quadrant",
						Generator: &Generator{
							Kind:         GeneratorGrid,
							Rows:         2,
							Cols:         2,
							LabelPattern: "{parent}-S{index}",
							Template:     &NodeDefinition{Type: SamplingUnit, Role: "subunit"},
						},
					},
				},
			},
		},
		{
			ID:          "circular-plot-400",
			Version:     1,
			Name:        "Circular plot 400 m²",
			Description: "Circular tree plot (r = 11.28 m) with a nested 50 m² regeneration subplot.",
			Root: NodeDefinition{
				Type:  Container,
				Shape: Circle(11.28),
				Role:  "plot",
				Generator: &Generator{
					Kind: GeneratorNested,
					Template: &NodeDefinition{
						Type:  SamplingUnit,
						Shape: Circle(3.99),
						Label: "R1",
						Role:  "regeneration",
						Tags:  []string{"saplings", "seedlings"},
					},
				},
			},
		},
		{
			ID:          "belt-transect-50m",
			Version:     1,
			Name:        "Belt transect 50 x 2 m",
			Description: "Fifty meter belt transect recorded in ten 5 m segments.",
			Root: NodeDefinition{
				Type:  Container,
				Shape: Line(50, 2),
				Role:  "transect",
				Generator: &Generator{
					Kind:         GeneratorGrid,
					Rows:         1,
					Cols:         10,
					LabelPattern: "T{index}",
					Template:     &NodeDefinition{Type: SamplingUnit, Role: "segment"},
				},
			},
		},
		{
			ID:          "herb-quadrat-1x1",
			Version:     1,
			Name:        "Herb quadrat 1 x 1 m",
			Description: "Single square meter quadrat for ground vegetation cover.",
			Root: NodeDefinition{
				Type:  SamplingUnit,
				Shape: Rect(1, 1),
				Label: "H1",
				Role:  "quadrat",
				Tags:  []string{"herbs", "cover"},
			},
		},
	}
}
