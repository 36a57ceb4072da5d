// Package heightfield converts ocean displacement maps into heightfields.
//
// # Overview
//
// An ocean simulation exports a displacement map: for every rest-state
// texel it stores how far the surface point moved horizontally (X, Z) and
// vertically (Y). Rendering only the vertical channel at each texel is
// wrong, because the point stored at texel p ends up at D(p), not at p.
// heightfield inverts the horizontal part of D at every output pixel and
// reads the height found at the source position.
//
// # Quick Start
//
//	in, err := heightfield.Load("disp_0001.exr")
//	if err != nil {
//		return err
//	}
//
//	c, err := heightfield.NewConverter(heightfield.WithHeightfield(50))
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	res, err := c.Convert(ctx, in)
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Stats.Average(), res.Stats.Min, res.Stats.Max)
//	err = res.Output.Save("disp_0001_OUT.exr")
//
// # Coordinates
//
// UV space is a torus: coordinates wrap on both axes, matching a tiling
// simulation patch. Texel i of N is centered at (i+0.5)/N.
//
// # Encodings
//
// Buffers hold one of three encodings: Scalar1 (one float), Color4Quantized8
// (four 8-bit channels read as value/255) and Vector4Float (four floats).
// OpenEXR files decode to Scalar1 or Vector4Float; PNG, TIFF and BMP decode
// to Color4Quantized8.
//
// # Convergence
//
// The inversion is a damped fixed-point iteration capped at MaxIterations.
// Reaching the cap is not an error; Stats.Unconverged counts such pixels.
package heightfield
