// Copyright 2026 The iced Authors
// SPDX-License-Identifier: MIT

package tessellate

import "github.com/pop-os/iced"

// Vertex is one mesh vertex in logical pixel coordinates.
type Vertex struct {
	X, Y float32
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// IsEmpty reports whether the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Indices) == 0
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// Bounds returns the axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() iced.Rectangle {
	if m == nil || len(m.Vertices) == 0 {
		return iced.Rectangle{}
	}
	minX, minY := m.Vertices[0].X, m.Vertices[0].Y
	maxX, maxY := minX, minY
	for _, v := range m.Vertices[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	return iced.Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
