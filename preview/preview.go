// Package preview renders inspection artifacts: shaded PNG snapshots of
// exported STL meshes and 2D plots of tooth profiles.
package preview

import (
	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	width, height = 768, 432
	// supersampling factor before downsampling for antialiasing.
	scale = 2
	fovy  = 30 // vertical field of view in degrees
)

// View positions the snapshot camera.
type View struct {
	LookAt r3.Vec // point the camera looks at
	Up     r3.Vec // up direction
	Eye    r3.Vec // camera position
	Near   float64
	Far    float64
}

// DefaultView is an isometric view suited to parts fit to the bi-unit cube.
var DefaultView = View{
	Up:   r3.Vec{Z: 1},
	Eye:  r3.Vec{X: 2.4, Y: 2.4, Z: 2.4},
	Near: 1,
	Far:  10,
}

// SnapshotSTL renders an STL file to a shaded PNG.
func SnapshotSTL(stlPath, pngPath string, view View) error {
	mesh, err := fauxgl.LoadSTL(stlPath)
	if err != nil {
		return err
	}
	var (
		eye    = fauxgl.V(view.Eye.X, view.Eye.Y, view.Eye.Z)
		center = fauxgl.V(view.LookAt.X, view.LookAt.Y, view.LookAt.Z)
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)

	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor("#468966")
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := resize.Resize(uint(width), uint(height), context.Image(), resize.Bilinear)
	return fauxgl.SavePNG(pngPath, image)
}

// PlotProfile draws a closed 2D profile polygon to an image file. The
// format follows the file extension (.png, .svg, .pdf).
func PlotProfile(pts []r2.Vec, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "radial [mm]"
	p.Y.Label.Text = "tangential [mm]"

	xys := make(plotter.XYs, len(pts)+1)
	for i, pt := range pts {
		xys[i].X, xys[i].Y = pt.X, pt.Y
	}
	xys[len(pts)] = xys[0] // close the outline
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	p.Add(line, plotter.NewGrid())
	return p.Save(12*vg.Centimeter, 12*vg.Centimeter, path)
}
