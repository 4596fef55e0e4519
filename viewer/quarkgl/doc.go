// Package quarkgl is the viewer's software 3D engine.
//
// It keeps a single model mesh plus a camera and a directional light, and
// rasterizes them into a caller-provided Target. Everything runs on the owner
// thread; none of the types here are safe for concurrent use.
//
// Pipeline:
//
//	Mesh → model/view/projection → near-plane reject → raster (flat or wire) → Target.
package quarkgl
