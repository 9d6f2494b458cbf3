package town

import "log/slog"

// Stats summarizes a generated town.
type Stats struct {
	Roads     int
	Buildings [buildingTypeCount]int
	Vertices  int
	Triangles int
}

func StatsOf(town *Town, mesh *Mesh) Stats {
	stats := Stats{
		Roads:     len(town.roads),
		Vertices:  len(mesh.Vertices),
		Triangles: mesh.TriangleCount(),
	}

	for _, building := range town.buildings {
		stats.Buildings[building.Type] += 1
	}

	return stats
}

func (s Stats) BuildingCount() int {
	var total int
	for _, count := range s.Buildings {
		total += count
	}

	return total
}

func (s Stats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("roads", s.Roads),
		slog.Int("buildings", s.BuildingCount()),
	}

	for typ, count := range s.Buildings {
		attrs = append(attrs, slog.Int(BuildingType(typ).String(), count))
	}

	attrs = append(attrs,
		slog.Int("vertices", s.Vertices),
		slog.Int("triangles", s.Triangles),
	)

	return slog.GroupValue(attrs...)
}
