package models

import (
	"github.com/golang/geo/r3"

	"segmentation3d/pkg/ellipsoid"
	"segmentation3d/pkg/quadric"
)

// Point is a single 3-D sample in a YAML point cloud
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Vector converts the point to an r3.Vector
func (p Point) Vector() r3.Vector {
	return r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
}

// PointCloud represents a set of points sampled on a segmented surface
type PointCloud struct {
	// Name identifies the point set in reports
	Name string `yaml:"name,omitempty"`

	// Points are the samples to fit
	Points []Point `yaml:"points"`
}

// Vectors returns the points as r3.Vectors
func (pc *PointCloud) Vectors() []r3.Vector {
	out := make([]r3.Vector, len(pc.Points))
	for i, p := range pc.Points {
		out[i] = p.Vector()
	}
	return out
}

// NewPointCloud builds a PointCloud from vectors
func NewPointCloud(name string, points []r3.Vector) *PointCloud {
	pc := &PointCloud{Name: name, Points: make([]Point, len(points))}
	for i, p := range points {
		pc.Points[i] = Point{X: p.X, Y: p.Y, Z: p.Z}
	}
	return pc
}

// Coefficients are the quadric coefficients of
// a x² + b y² + c z² + d xy + e xz + f yz + g x + h y + i z + j
type Coefficients struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`
	D float64 `yaml:"d"`
	E float64 `yaml:"e"`
	F float64 `yaml:"f"`
	G float64 `yaml:"g"`
	H float64 `yaml:"h"`
	I float64 `yaml:"i"`
	J float64 `yaml:"j"`
}

// Shape describes the geometric ellipsoid of a fit
type Shape struct {
	Center   Point      `yaml:"center"`
	SemiAxes [3]float64 `yaml:"semiAxes,flow"`
	Axes     [3]Point   `yaml:"axes"`
	Volume   float64    `yaml:"volume"`
	Surface  float64    `yaml:"surface"`
}

// Quality holds the fit metrics of a report
type Quality struct {
	AlgebraicRMSE float64 `yaml:"algebraicRMSE"`
	MeanDistance  float64 `yaml:"meanDistance"`
	MaxDistance   float64 `yaml:"maxDistance"`
}

// FitReport is the serialized outcome of fitting one point set
type FitReport struct {
	// ID is the identifier of the fitted quadric
	ID string `yaml:"id"`

	// Source names the point set the fit came from
	Source string `yaml:"source"`

	// Points is the number of input points
	Points int `yaml:"points"`

	Iterations   int          `yaml:"iterations"`
	Residual     float64      `yaml:"residual"`
	Coefficients Coefficients `yaml:"coefficients"`

	// Ellipsoid is nil when the fitted quadric has no ellipsoid form,
	// e.g. for coplanar input
	Ellipsoid *Shape  `yaml:"ellipsoid,omitempty"`
	Metrics   Quality `yaml:"metrics"`
}

func toPoint(v r3.Vector) Point {
	return Point{X: v.X, Y: v.Y, Z: v.Z}
}

// NewFitReport builds a report from a fit result
func NewFitReport(source string, points int, res *ellipsoid.Result) *FitReport {
	c := res.Quadric.Coefficients()

	report := &FitReport{
		ID:         res.Quadric.ID(),
		Source:     source,
		Points:     points,
		Iterations: res.Iterations,
		Residual:   res.Residual,
		Coefficients: Coefficients{
			A: c[quadric.A], B: c[quadric.B], C: c[quadric.C],
			D: c[quadric.D], E: c[quadric.E], F: c[quadric.F],
			G: c[quadric.G], H: c[quadric.H], I: c[quadric.I],
			J: c[quadric.J],
		},
		Metrics: Quality{
			AlgebraicRMSE: res.Metrics.AlgebraicRMSE,
			MeanDistance:  res.Metrics.MeanDistance,
			MaxDistance:   res.Metrics.MaxDistance,
		},
	}

	if e, err := c.Ellipsoid(); err == nil {
		report.Ellipsoid = &Shape{
			Center:   toPoint(e.Center),
			SemiAxes: e.SemiAxes,
			Axes:     [3]Point{toPoint(e.Axes[0]), toPoint(e.Axes[1]), toPoint(e.Axes[2])},
			Volume:   e.Volume(),
			Surface:  e.Surface(),
		}
	}

	return report
}

// Quadric converts the reported coefficients back into quadric coefficients
func (c Coefficients) Quadric() quadric.Coefficients {
	return quadric.Coefficients{c.A, c.B, c.C, c.D, c.E, c.F, c.G, c.H, c.I, c.J}
}
