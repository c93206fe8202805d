// Package spatialmath defines the planar spatial operations used across
// navcore: poses and points in a 2D map frame and the angle math that goes
// with them.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

const radToDeg = 180 / math.Pi

const degToRad = math.Pi / 180

// Pose2D is a position and heading in a planar coordinate frame. X and Y are
// in meters; Theta is in radians, counterclockwise from the positive X axis.
type Pose2D struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

// NewPose2D returns a pose at (x, y) facing theta radians.
func NewPose2D(x, y, theta float64) Pose2D {
	return Pose2D{X: x, Y: y, Theta: theta}
}

// Point returns the translation component of the pose.
func (p Pose2D) Point() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// Heading returns the unit vector the pose is facing along.
func (p Pose2D) Heading() r2.Point {
	return r2.Point{X: math.Cos(p.Theta), Y: math.Sin(p.Theta)}
}

// DistanceTo returns the Euclidean distance between the translation
// components of p and o.
func (p Pose2D) DistanceTo(o Pose2D) float64 {
	return p.Point().Sub(o.Point()).Norm()
}

// AngleTo returns the smallest signed rotation that takes p's heading to
// o's heading, in (-π, π].
func (p Pose2D) AngleTo(o Pose2D) float64 {
	return NormalizeAngle(o.Theta - p.Theta)
}

// ApproxEqual reports whether p and o are within epsilon of each other in
// both translation (meters) and heading (radians).
func (p Pose2D) ApproxEqual(o Pose2D, epsilon float64) bool {
	return p.DistanceTo(o) <= epsilon && math.Abs(p.AngleTo(o)) <= epsilon
}

func (p Pose2D) String() string {
	return fmt.Sprintf("(x=%.3f, y=%.3f, theta=%.3f)", p.X, p.Y, p.Theta)
}

// NormalizeAngle wraps an angle in radians to (-π, π].
func NormalizeAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	switch {
	case theta > math.Pi:
		theta -= 2 * math.Pi
	case theta <= -math.Pi:
		theta += 2 * math.Pi
	}
	return theta
}

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * degToRad
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * radToDeg
}
