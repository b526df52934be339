// Package formats provides parsers for map, landscape, floor and texture
// definition formats.
package formats

// Note: region terrain (m{x}_{y}) is implemented in region.go
// Note: landscape object placements (l{x}_{y}) are implemented in landscape.go
// Note: overlay and underlay definitions are implemented in floor.go
